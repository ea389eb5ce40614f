package api

import (
	"net/http"                   // HTTP status codes
	"recipe_api/internal/domain" // Importing domain models
	"recipe_api/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`    // Email must be provided and valid
	Password string `json:"password" binding:"required,min=5"` // Password must be at least 5 characters
	Name     string `json:"name"`                              // Optional display name
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// UserResponse is the wire representation of the current user
type UserResponse struct {
	ID    uint   `json:"id"`    // User ID
	Email string `json:"email"` // Normalized email
	Name  string `json:"name"`  // Display name
}

// RegisterHandler creates a new user account
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return field-level validation errors
			c.JSON(http.StatusBadRequest, validationErrors(err))
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		// Create user with the domain portion of the email lowercased
		user := domain.User{
			Email:    domain.NormalizeEmail(req.Email), // Normalized email
			Password: string(hash),                     // Hashed password
			Name:     req.Name,                         // Display name
			IsActive: true,                             // New accounts are active
		}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// If creation fails (e.g., duplicate email), return bad request
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"email": "A user with that email already exists."}})
			return
		}
		// Log successful registration
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,    // User ID
			"email":   user.Email, // Normalized email
		}).Info("User registered")
		// Return the created user
		c.JSON(http.StatusCreated, UserResponse{ID: user.ID, Email: user.Email, Name: user.Name})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return field-level validation errors
			c.JSON(http.StatusBadRequest, validationErrors(err))
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", domain.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Inactive accounts cannot log in
		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}

// Request struct for updating the current user
type UpdateMeRequest struct {
	Name     *string `json:"name"`                               // New display name
	Password *string `json:"password" binding:"omitempty,min=5"` // New password, at least 5 characters
}

// MeHandler returns the authenticated user's profile
func MeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			// If user not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Return the profile
		c.JSON(http.StatusOK, UserResponse{ID: user.ID, Email: user.Email, Name: user.Name})
	}
}

// UpdateMeHandler changes the authenticated user's name or password
func UpdateMeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdateMeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return field-level validation errors
			c.JSON(http.StatusBadRequest, validationErrors(err))
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			// If user not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Apply only the provided fields
		if req.Name != nil {
			user.Name = *req.Name // Update display name
		}
		if req.Password != nil {
			// Hash the new password
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
				return
			}
			user.Password = string(hash) // Update password hash
		}
		// Persist the changes
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		// Return the updated profile
		c.JSON(http.StatusOK, UserResponse{ID: user.ID, Email: user.Email, Name: user.Name})
	}
}
