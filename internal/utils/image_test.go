package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecipeImagePath(t *testing.T) {
	path := RecipeImagePath("myimage.jpg")

	assert.True(t, strings.HasPrefix(path, "uploads/recipe/"))
	assert.True(t, strings.HasSuffix(path, ".jpg"))
	// The generated name is more than just the extension
	assert.Greater(t, len(path), len("uploads/recipe/.jpg"))
}

func TestRecipeImagePathIsUniquePerUpload(t *testing.T) {
	// Two uploads of the same file never collide
	assert.NotEqual(t, RecipeImagePath("myimage.jpg"), RecipeImagePath("myimage.jpg"))
}

func TestRecipeImagePathKeepsExtension(t *testing.T) {
	assert.True(t, strings.HasSuffix(RecipeImagePath("photo.PNG"), ".PNG"))
	assert.False(t, strings.Contains(RecipeImagePath("noextension"), "."))
}
