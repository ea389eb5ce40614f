package domain

import "strings" // Email normalization

// User Model
type User struct {
	ID          uint   `gorm:"primaryKey"`      // Primary key
	Email       string `gorm:"unique;not null"` // Unique email, normalized on registration
	Password    string `gorm:"not null"`        // Hashed password
	Name        string // Display name
	IsStaff     bool   `gorm:"default:false"` // Staff flag, grants admin endpoints
	IsSuperuser bool   `gorm:"default:false"` // Superuser flag
	IsActive    bool   `gorm:"default:true"`  // Inactive users cannot log in
}

// NormalizeEmail lowercases the domain portion of an email address while
// keeping the local part as given.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@") // Split on the last @
	if at < 0 {
		return email // Not an address, leave untouched
	}
	return email[:at+1] + strings.ToLower(email[at+1:]) // Lowercase domain only
}
