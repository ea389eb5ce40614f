package api

import (
	"net/http"                   // HTTP status codes
	"recipe_api/internal/domain" // Importing domain models
	"strconv"                    // Query flag parsing

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// assignedOnly reports whether the assigned_only query flag is set
func assignedOnly(c *gin.Context) bool {
	v, err := strconv.Atoi(c.DefaultQuery("assigned_only", "0")) // Parse the flag
	return err == nil && v != 0                                  // Any non-zero integer enables it
}

// ListTagsHandler returns the caller's tags, ordered by name descending
func ListTagsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		query := db.Where("user_id = ?", userID) // Only rows owned by the caller
		// Restrict to tags attached to at least one recipe when requested
		if assignedOnly(c) {
			query = query.Where("id IN (SELECT tag_id FROM recipe_tags)")
		}
		var tags []domain.Tag // Slice to hold tags
		// Fetch tags ordered by name descending
		if err := query.Order("name desc").Find(&tags).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
			return
		}
		c.JSON(http.StatusOK, toTagResponses(tags)) // Return the tag list
	}
}

// CreateTagHandler creates a tag owned by the caller
func CreateTagHandler(db *gorm.DB) gin.HandlerFunc {
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
		// Create the tag owned by the caller
		tag := domain.Tag{Name: req.Name, UserID: userID.(uint)}
		if err := db.Create(&tag).Error; err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Owning user
				"name":    req.Name,    // Tag name
				"error":   err.Error(), // Error message
			}).Error("Failed to create tag")
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tag"})
			return
		}
		// Return the created tag
		c.JSON(http.StatusCreated, TagResponse{ID: tag.ID, Name: tag.Name})
	}
}
