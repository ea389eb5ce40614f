package domain

// Tag Model
type Tag struct {
	ID     uint   `gorm:"primaryKey"` // Primary key
	Name   string `gorm:"not null"`   // Tag name, duplicates per user are allowed
	UserID uint   `gorm:"not null"`   // Foreign key to the owning User
}
