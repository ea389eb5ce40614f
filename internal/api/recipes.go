package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error unwrapping
	"image"    // Upload validation by decoding the image header
	"net/http" // HTTP status codes
	"os"       // Media file handling
	"path/filepath"
	"strconv" // String conversion
	"strings" // String manipulation
	"time"    // Cache TTLs

	"recipe_api/internal/domain" // Importing domain models
	"recipe_api/internal/utils"  // Utility functions

	_ "image/gif"  // Register GIF decoding
	_ "image/jpeg" // Register JPEG decoding
	_ "image/png"  // Register PNG decoding

	_ "golang.org/x/image/webp" // Register WebP decoding

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
	"gorm.io/gorm/clause"          // For deleting association rows
)

// RecipeWriteRequest is the payload for create and full update. Optional
// fields are pointers so an omitted field can be told apart from a zero one.
// A "user" key in the payload has no matching field and is dropped.
type RecipeWriteRequest struct {
	Title       string         `json:"title" binding:"required"`             // Title must be provided
	TimeMinutes *uint          `json:"time_minutes" binding:"required"`      // Time must be provided, non-negative by type
	Price       *float64       `json:"price" binding:"required,gte=0"`       // Price must be provided and non-negative
	Link        *string        `json:"link" binding:"omitempty,url"`         // Optional external link
	Description *string        `json:"description"`                          // Optional description
	Tags        *[]AttrPayload `json:"tags" binding:"omitempty,dive"`        // Optional nested tags
	Ingredients *[]AttrPayload `json:"ingredients" binding:"omitempty,dive"` // Optional nested ingredients
}

// RecipePatchRequest is the payload for partial update; nothing is required,
// but a provided title must not be blank
type RecipePatchRequest struct {
	Title       *string        `json:"title" binding:"omitempty,min=1"`      // New title, non-empty when present
	TimeMinutes *uint          `json:"time_minutes"`                         // New preparation time
	Price       *float64       `json:"price" binding:"omitempty,gte=0"`      // New price
	Link        *string        `json:"link" binding:"omitempty,url"`         // New external link
	Description *string        `json:"description"`                          // New description
	Tags        *[]AttrPayload `json:"tags" binding:"omitempty,dive"`        // Replacement tag set
	Ingredients *[]AttrPayload `json:"ingredients" binding:"omitempty,dive"` // Replacement ingredient set
}

// ownedRecipes narrows a recipe query to rows owned by the given user.
// Ownership is enforced here, by hiding other users' rows, so a cross-user
// id lookup surfaces as not-found rather than forbidden.
func ownedRecipes(db *gorm.DB, userID uint) *gorm.DB {
	return db.Where("user_id = ?", userID)
}

// getOwnedRecipe fetches one recipe owned by the user, by path id
func getOwnedRecipe(db *gorm.DB, userID uint, idParam string, preload bool) (*domain.Recipe, error) {
	id, err := strconv.Atoi(idParam)
	if err != nil {
		return nil, gorm.ErrRecordNotFound // Non-numeric ids are not found
	}
	query := ownedRecipes(db, userID)
	if preload {
		query = query.Preload("Tags").Preload("Ingredients") // Load attached attributes
	}
	var recipe domain.Recipe
	if err := query.First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// parseIDList parses a comma-separated id list query parameter
func parseIDList(raw string) ([]int, error) {
	parts := strings.Split(raw, ",") // Split on commas
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p)) // Each part must be an integer
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// resolveTags finds or creates a tag per nested payload item, scoped to the user
func resolveTags(tx *gorm.DB, userID uint, items []AttrPayload) ([]domain.Tag, error) {
	tags := make([]domain.Tag, 0, len(items))
	for _, item := range items {
		var tag domain.Tag
		// Exact name match for this user; create when missing
		if err := tx.FirstOrCreate(&tag, domain.Tag{UserID: userID, Name: item.Name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// resolveIngredients finds or creates an ingredient per nested payload item
func resolveIngredients(tx *gorm.DB, userID uint, items []AttrPayload) ([]domain.Ingredient, error) {
	ingredients := make([]domain.Ingredient, 0, len(items))
	for _, item := range items {
		var ingredient domain.Ingredient
		// Exact name match for this user; create when missing
		if err := tx.FirstOrCreate(&ingredient, domain.Ingredient{UserID: userID, Name: item.Name}).Error; err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}

// replaceTags resolves the nested payload and replaces the recipe's tag set
// wholesale. An empty payload clears the set.
func replaceTags(tx *gorm.DB, recipe *domain.Recipe, userID uint, items []AttrPayload) error {
	tags, err := resolveTags(tx, userID, items)
	if err != nil {
		return err
	}
	assoc := tx.Model(recipe).Association("Tags")
	if len(tags) == 0 {
		if err := assoc.Clear(); err != nil { // Empty list clears the set
			return err
		}
	} else if err := assoc.Replace(&tags); err != nil { // Full replace, not an add
		return err
	}
	recipe.Tags = tags
	return nil
}

// replaceIngredients resolves the nested payload and replaces the ingredient set
func replaceIngredients(tx *gorm.DB, recipe *domain.Recipe, userID uint, items []AttrPayload) error {
	ingredients, err := resolveIngredients(tx, userID, items)
	if err != nil {
		return err
	}
	assoc := tx.Model(recipe).Association("Ingredients")
	if len(ingredients) == 0 {
		if err := assoc.Clear(); err != nil { // Empty list clears the set
			return err
		}
	} else if err := assoc.Replace(&ingredients); err != nil { // Full replace, not an add
		return err
	}
	recipe.Ingredients = ingredients
	return nil
}

// Cache keys for recipe reads
func recipeListKey(userID uint) string {
	return "recipes:user:" + strconv.Itoa(int(userID))
}

func recipeDetailKey(userID, recipeID uint) string {
	return "recipe:user:" + strconv.Itoa(int(userID)) + ":id:" + strconv.Itoa(int(recipeID))
}

// invalidateRecipeCache drops cached recipe reads after a write
func invalidateRecipeCache(rdb *redis.Client, userID, recipeID uint) {
	ctx := context.Background()                            // Context for Redis operations
	_ = utils.DeleteCache(ctx, rdb, recipeListKey(userID)) // Invalidate the list
	if recipeID != 0 {
		_ = utils.DeleteCache(ctx, rdb, recipeDetailKey(userID, recipeID)) // Invalidate the detail
	}
}

// ListRecipesHandler returns the caller's recipes ordered by id descending,
// optionally narrowed by comma-separated tag and ingredient id sets
func ListRecipesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		uid := userID.(uint)
		tagsParam := c.Query("tags")               // Optional tag id filter
		ingredientsParam := c.Query("ingredients") // Optional ingredient id filter
		unfiltered := tagsParam == "" && ingredientsParam == ""
		ctx := context.Background() // Context for Redis operations
		// Only the unfiltered list is cached
		if unfiltered {
			var cached []RecipeResponse
			found, err := utils.GetCache(ctx, rdb, recipeListKey(uid), &cached)
			if err == nil && found {
				c.JSON(http.StatusOK, cached) // Return cached list
				return
			}
		}
		query := ownedRecipes(db, uid).Model(&domain.Recipe{}) // Only rows owned by the caller
		// A recipe matches when it has at least one tag in the supplied set
		if tagsParam != "" {
			tagIDs, err := parseIDList(tagsParam)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"tags": "Enter comma-separated integer ids."}})
				return
			}
			query = query.Where("id IN (SELECT recipe_id FROM recipe_tags WHERE tag_id IN ?)", tagIDs)
		}
		// Same for ingredients; both filters together AND across fields
		if ingredientsParam != "" {
			ingredientIDs, err := parseIDList(ingredientsParam)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"ingredients": "Enter comma-separated integer ids."}})
				return
			}
			query = query.Where("id IN (SELECT recipe_id FROM recipe_ingredients WHERE ingredient_id IN ?)", ingredientIDs)
		}
		var recipes []domain.Recipe // Slice to hold recipes
		// Fetch recipes newest-first with their attributes
		if err := query.Preload("Tags").Preload("Ingredients").Order("id desc").Find(&recipes).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
			return
		}
		resp := toRecipeResponses(recipes) // Summary representation, no description
		if unfiltered {
			_ = utils.SetCache(ctx, rdb, recipeListKey(uid), resp, 60*time.Second) // Cache for 60 seconds
		}
		c.JSON(http.StatusOK, resp) // Return the recipe list
	}
}

// CreateRecipeHandler creates a recipe owned by the caller, resolving any
// nested tag/ingredient payload inside one transaction
func CreateRecipeHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		uid := userID.(uint)
		var req RecipeWriteRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return field-level validation errors
			c.JSON(http.StatusBadRequest, validationErrors(err))
			return
		}
		// The owner is always the caller, never taken from the payload
		recipe := domain.Recipe{
			UserID:      uid,              // Owning user
			Title:       req.Title,        // Recipe title
			TimeMinutes: *req.TimeMinutes, // Preparation time
			Price:       *req.Price,       // Price
		}
		if req.Link != nil {
			recipe.Link = *req.Link // Optional link
		}
		if req.Description != nil {
			recipe.Description = *req.Description // Optional description
		}
		// Create the recipe and resolve nested attributes atomically
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&recipe).Error; err != nil {
				return err // Return error to rollback
			}
			// Resolve-then-replace for each supplied nested field
			if req.Tags != nil {
				if err := replaceTags(tx, &recipe, uid, *req.Tags); err != nil {
					return err // Return error to rollback
				}
			}
			if req.Ingredients != nil {
				if err := replaceIngredients(tx, &recipe, uid, *req.Ingredients); err != nil {
					return err // Return error to rollback
				}
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": uid,         // Owning user
				"title":   req.Title,   // Recipe title
				"error":   err.Error(), // Error message
			}).Error("Failed to create recipe")
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
			return
		}
		// Log successful creation
		logrus.WithFields(logrus.Fields{
			"user_id":   uid,       // Owning user
			"recipe_id": recipe.ID, // New recipe ID
		}).Info("Recipe created")
		invalidateRecipeCache(rdb, uid, 0)                         // The cached list is stale now
		c.JSON(http.StatusCreated, toRecipeDetailResponse(recipe)) // Return the detail representation
	}
}

// GetRecipeHandler returns one recipe owned by the caller in detail form
func GetRecipeHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		uid := userID.(uint)
		idParam := c.Param("id")
		ctx := context.Background() // Context for Redis operations
		// The detail read is cached per user and recipe
		if id, err := strconv.Atoi(idParam); err == nil {
			var cached RecipeDetailResponse
			found, err := utils.GetCache(ctx, rdb, recipeDetailKey(uid, uint(id)), &cached)
			if err == nil && found {
				c.JSON(http.StatusOK, cached) // Return cached detail
				return
			}
		}
		recipe, err := getOwnedRecipe(db, uid, idParam, true) // Only the caller's rows are visible
		if err != nil {
			// Unknown and other users' ids both surface as not found
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
			return
		}
		resp := toRecipeDetailResponse(*recipe)
		_ = utils.SetCache(ctx, rdb, recipeDetailKey(uid, recipe.ID), resp, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, resp)                                                         // Return the detail representation
	}
}

// UpdateRecipeHandler updates a recipe owned by the caller. With partial set,
// nothing is required; otherwise all non-optional scalars must be present.
// An omitted nested field is left untouched; an empty list clears the set.
func UpdateRecipeHandler(db *gorm.DB, rdb *redis.Client, partial bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		uid := userID.(uint)
		// Resolve the target before reading the body, so an id the caller
		// cannot see is not found regardless of what the payload holds
		recipe, err := getOwnedRecipe(db, uid, c.Param("id"), false) // Only the caller's rows are visible
		if err != nil {
			// Unknown and other users' ids both surface as not found
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
			return
		}
		var req RecipePatchRequest
		if partial {
			// Partial update requires no fields
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, validationErrors(err))
				return
			}
		} else {
			// Full update requires title, time and price
			var full RecipeWriteRequest
			if err := c.ShouldBindJSON(&full); err != nil {
				c.JSON(http.StatusBadRequest, validationErrors(err))
				return
			}
			req = RecipePatchRequest{
				Title:       &full.Title,      // Required on full update
				TimeMinutes: full.TimeMinutes, // Required on full update
				Price:       full.Price,       // Required on full update
				Link:        full.Link,        // Optional
				Description: full.Description, // Optional
				Tags:        full.Tags,        // Optional nested set
				Ingredients: full.Ingredients, // Optional nested set
			}
		}
		// Collect the provided scalar columns. The owning user is immutable,
		// so no payload can ever reach the user_id column.
		updates := map[string]any{}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.TimeMinutes != nil {
			updates["time_minutes"] = *req.TimeMinutes
		}
		if req.Price != nil {
			updates["price"] = *req.Price
		}
		if req.Link != nil {
			updates["link"] = *req.Link
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		// Apply scalars and nested replacements atomically
		err = db.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(recipe).Updates(updates).Error; err != nil {
					return err // Return error to rollback
				}
			}
			// Resolve-then-replace for each supplied nested field
			if req.Tags != nil {
				if err := replaceTags(tx, recipe, uid, *req.Tags); err != nil {
					return err // Return error to rollback
				}
			}
			if req.Ingredients != nil {
				if err := replaceIngredients(tx, recipe, uid, *req.Ingredients); err != nil {
					return err // Return error to rollback
				}
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":   uid,         // Owning user
				"recipe_id": recipe.ID,   // Recipe ID
				"error":     err.Error(), // Error message
			}).Error("Failed to update recipe")
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
			return
		}
		// Reload with attributes for the response
		updated, err := getOwnedRecipe(db, uid, c.Param("id"), true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
			return
		}
		invalidateRecipeCache(rdb, uid, recipe.ID)              // Cached reads are stale now
		c.JSON(http.StatusOK, toRecipeDetailResponse(*updated)) // Return the detail representation
	}
}

// DeleteRecipeHandler deletes a recipe owned by the caller along with its
// tag/ingredient links; the tags and ingredients themselves survive
func DeleteRecipeHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		uid := userID.(uint)
		recipe, err := getOwnedRecipe(db, uid, c.Param("id"), false) // Only the caller's rows are visible
		if err != nil {
			// Unknown and other users' ids both surface as not found
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
			return
		}
		// Delete the row and its association rows together
		if err := db.Select(clause.Associations).Delete(recipe).Error; err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":   uid,         // Owning user
				"recipe_id": recipe.ID,   // Recipe ID
				"error":     err.Error(), // Error message
			}).Error("Failed to delete recipe")
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recipe"})
			return
		}
		// Log successful deletion
		logrus.WithFields(logrus.Fields{
			"user_id":   uid,       // Owning user
			"recipe_id": recipe.ID, // Recipe ID
		}).Info("Recipe deleted")
		invalidateRecipeCache(rdb, uid, recipe.ID) // Cached reads are stale now
		c.Status(http.StatusNoContent)             // Nothing to return
	}
}

// UploadRecipeImageHandler stores an uploaded image for a recipe and replaces
// its image reference. The payload must decode as an image; on failure the
// recipe is left untouched.
func UploadRecipeImageHandler(db *gorm.DB, rdb *redis.Client, mediaRoot string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		uid := userID.(uint)
		recipe, err := getOwnedRecipe(db, uid, c.Param("id"), false) // Only the caller's rows are visible
		if err != nil {
			// Unknown and other users' ids both surface as not found
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
			return
		}
		// The multipart form must carry an image field
		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"image": "No image was submitted."}})
			return
		}
		src, err := fileHeader.Open() // Open the uploaded part
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
			return
		}
		// Validate by decoding the image header; anything undecodable is rejected
		_, _, decodeErr := image.DecodeConfig(src)
		src.Close()
		if decodeErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"image": "Upload a valid image."}})
			return
		}
		// Fresh UUID file name per upload, so nothing is ever overwritten
		rel := utils.RecipeImagePath(fileHeader.Filename)
		dst := filepath.Join(mediaRoot, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
			return
		}
		// Write the file before touching the row
		if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
			return
		}
		// Swap the stored image reference
		if err := db.Model(recipe).Update("image", rel).Error; err != nil {
			_ = os.Remove(dst) // Drop the orphaned file
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":   uid,         // Owning user
				"recipe_id": recipe.ID,   // Recipe ID
				"error":     err.Error(), // Error message
			}).Error("Failed to save recipe image")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
			return
		}
		// Log successful upload
		logrus.WithFields(logrus.Fields{
			"user_id":   uid,       // Owning user
			"recipe_id": recipe.ID, // Recipe ID
			"image":     rel,       // Stored path
		}).Info("Recipe image uploaded")
		invalidateRecipeCache(rdb, uid, recipe.ID) // Cached reads are stale now
		// Return only the id and the served image URL
		c.JSON(http.StatusOK, RecipeImageResponse{ID: recipe.ID, Image: "/media/" + rel})
	}
}
