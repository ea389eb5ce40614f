package api

import "recipe_api/internal/domain" // Importing domain models

// AttrPayload is a nested tag/ingredient item inside a recipe write.
// Only the name is writable; ids are never accepted from the client.
type AttrPayload struct {
	Name string `json:"name" binding:"required"` // Attribute name must be provided
}

// TagResponse is the wire representation of a tag
type TagResponse struct {
	ID   uint   `json:"id"`   // Tag ID
	Name string `json:"name"` // Tag name
}

// IngredientResponse is the wire representation of an ingredient
type IngredientResponse struct {
	ID   uint   `json:"id"`   // Ingredient ID
	Name string `json:"name"` // Ingredient name
}

// RecipeResponse is the summary representation used in list results.
// It carries no description.
type RecipeResponse struct {
	ID          uint                 `json:"id"`           // Recipe ID
	Title       string               `json:"title"`        // Recipe title
	TimeMinutes uint                 `json:"time_minutes"` // Preparation time in minutes
	Price       float64              `json:"price"`        // Price
	Link        string               `json:"link"`         // Optional external link
	Tags        []TagResponse        `json:"tags"`         // Attached tags
	Ingredients []IngredientResponse `json:"ingredients"`  // Attached ingredients
}

// RecipeDetailResponse is the detail representation, adding the description
type RecipeDetailResponse struct {
	RecipeResponse        // Summary fields
	Description    string `json:"description"` // Long description
}

// RecipeImageResponse is returned by the image upload action
type RecipeImageResponse struct {
	ID    uint   `json:"id"`    // Recipe ID
	Image string `json:"image"` // Served image URL
}

// toTagResponses maps tags to their wire representation
func toTagResponses(tags []domain.Tag) []TagResponse {
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = TagResponse{ID: t.ID, Name: t.Name}
	}
	return out
}

// toIngredientResponses maps ingredients to their wire representation
func toIngredientResponses(ingredients []domain.Ingredient) []IngredientResponse {
	out := make([]IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		out[i] = IngredientResponse{ID: ing.ID, Name: ing.Name}
	}
	return out
}

// toRecipeResponse maps a recipe to its summary representation
func toRecipeResponse(r domain.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:          r.ID,                                 // Recipe ID
		Title:       r.Title,                              // Recipe title
		TimeMinutes: r.TimeMinutes,                        // Preparation time
		Price:       r.Price,                              // Price
		Link:        r.Link,                               // External link
		Tags:        toTagResponses(r.Tags),               // Attached tags
		Ingredients: toIngredientResponses(r.Ingredients), // Attached ingredients
	}
}

// toRecipeResponses maps recipes to their summary representation
func toRecipeResponses(recipes []domain.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		out[i] = toRecipeResponse(r)
	}
	return out
}

// toRecipeDetailResponse maps a recipe to its detail representation
func toRecipeDetailResponse(r domain.Recipe) RecipeDetailResponse {
	return RecipeDetailResponse{
		RecipeResponse: toRecipeResponse(r), // Summary fields
		Description:    r.Description,       // Plus the description
	}
}
