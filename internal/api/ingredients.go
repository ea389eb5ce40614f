package api

import (
	"net/http"                   // HTTP status codes
	"recipe_api/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// ListIngredientsHandler returns the caller's ingredients, ordered by name descending
func ListIngredientsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		query := db.Where("user_id = ?", userID) // Only rows owned by the caller
		// Restrict to ingredients attached to at least one recipe when requested
		if assignedOnly(c) {
			query = query.Where("id IN (SELECT ingredient_id FROM recipe_ingredients)")
		}
		var ingredients []domain.Ingredient // Slice to hold ingredients
		// Fetch ingredients ordered by name descending
		if err := query.Order("name desc").Find(&ingredients).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ingredients"})
			return
		}
		c.JSON(http.StatusOK, toIngredientResponses(ingredients)) // Return the ingredient list
	}
}

// CreateIngredientHandler creates an ingredient owned by the caller
func CreateIngredientHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req AttrPayload // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return field-level validation errors
			c.JSON(http.StatusBadRequest, validationErrors(err))
			return
		}
		// Create the ingredient owned by the caller
		ingredient := domain.Ingredient{Name: req.Name, UserID: userID.(uint)}
		if err := db.Create(&ingredient).Error; err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Owning user
				"name":    req.Name,    // Ingredient name
				"error":   err.Error(), // Error message
			}).Error("Failed to create ingredient")
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ingredient"})
			return
		}
		// Return the created ingredient
		c.JSON(http.StatusCreated, IngredientResponse{ID: ingredient.ID, Name: ingredient.Name})
	}
}
