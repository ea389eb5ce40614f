package domain

// Recipe Model
type Recipe struct {
	ID          uint         `gorm:"primaryKey"` // Primary key
	UserID      uint         `gorm:"not null"`   // Foreign key to the owning User, immutable after create
	Title       string       `gorm:"not null"`   // Recipe title
	TimeMinutes uint         // Preparation time in minutes
	Price       float64      `gorm:"type:decimal(5,2)"` // Price, fixed-point in the store
	Link        string       // Optional external link
	Description string       `gorm:"type:text"` // Optional long description
	Image       string       // Optional image path relative to the media root
	Tags        []Tag        `gorm:"many2many:recipe_tags"`        // Tags attached to this recipe
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients"` // Ingredients attached to this recipe
}
