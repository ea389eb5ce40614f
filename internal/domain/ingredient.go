package domain

// Ingredient Model
type Ingredient struct {
	ID     uint   `gorm:"primaryKey"` // Primary key
	Name   string `gorm:"not null"`   // Ingredient name, duplicates per user are allowed
	UserID uint   `gorm:"not null"`   // Foreign key to the owning User
}
