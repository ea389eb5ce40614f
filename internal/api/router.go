package api

import (
	"recipe_api/internal/config"     // Application configuration
	"recipe_api/internal/middleware" // Auth middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// SetupRouter builds the gin engine with every route wired up
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	r := gin.Default() // Gin router instance

	// Uploaded media is served back under /media
	r.Static("/media", cfg.MediaRoot)

	// Auth routes
	r.POST("/user", RegisterHandler(db))                   // Registration endpoint
	r.POST("/user/token", LoginHandler(db, cfg.JWTSecret)) // Token endpoint

	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret) // Shared token check

	// Current-user routes (protected by JWT)
	meGroup := r.Group("/user/me")
	meGroup.Use(auth)
	meGroup.GET("", MeHandler(db))         // Profile endpoint
	meGroup.PATCH("", UpdateMeHandler(db)) // Profile update endpoint

	// Tag routes (protected by JWT)
	tagGroup := r.Group("/tags")
	tagGroup.Use(auth)
	tagGroup.GET("", ListTagsHandler(db))   // List tags endpoint
	tagGroup.POST("", CreateTagHandler(db)) // Create tag endpoint

	// Ingredient routes (protected by JWT)
	ingredientGroup := r.Group("/ingredients")
	ingredientGroup.Use(auth)
	ingredientGroup.GET("", ListIngredientsHandler(db))   // List ingredients endpoint
	ingredientGroup.POST("", CreateIngredientHandler(db)) // Create ingredient endpoint

	// Recipe routes (protected by JWT)
	recipeGroup := r.Group("/recipes")
	recipeGroup.Use(auth)
	recipeGroup.GET("", ListRecipesHandler(db, rdb))                                        // List recipes endpoint
	recipeGroup.POST("", CreateRecipeHandler(db, rdb))                                      // Create recipe endpoint
	recipeGroup.GET("/:id", GetRecipeHandler(db, rdb))                                      // Recipe detail endpoint
	recipeGroup.PUT("/:id", UpdateRecipeHandler(db, rdb, false))                            // Full update endpoint
	recipeGroup.PATCH("/:id", UpdateRecipeHandler(db, rdb, true))                           // Partial update endpoint
	recipeGroup.DELETE("/:id", DeleteRecipeHandler(db, rdb))                                // Delete recipe endpoint
	recipeGroup.POST("/:id/upload-image", UploadRecipeImageHandler(db, rdb, cfg.MediaRoot)) // Image upload endpoint

	// Admin routes (protected, staff only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(auth, middleware.StaffOnlyMiddleware(db))
	adminGroup.GET("/users", ListUsersHandler(db, rdb)) // List users endpoint

	return r
}
