package utils

import (
	"path/filepath" // Extension handling

	"github.com/google/uuid" // Unique file names
)

// RecipeImagePath builds the storage path for an uploaded recipe image.
// The name is a fresh UUID plus the original extension, so two uploads can
// never collide even for the same recipe.
func RecipeImagePath(originalName string) string {
	ext := filepath.Ext(originalName)                    // Keep the original extension
	return "uploads/recipe/" + uuid.New().String() + ext // Fresh UUID per upload
}
