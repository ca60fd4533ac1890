// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user profile in the Bond Tree application.
// Relationships and content are keyed by the stable ID, never by email:
// email is a mutable attribute of identity, not a join key.
// Username and email are unique case-insensitively: lookups go through
// LOWER() and migration adds matching LOWER() unique indexes, so case
// variants of a taken name cannot slip past the pre-checks.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"uniqueIndex;not null" json:"username"`
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string         `json:"display_name"`
	Bio         string         `json:"bio"`
	Avatar      string         `json:"avatar"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Posts       []Post         `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	Moods       []MoodEntry    `gorm:"foreignKey:UserID" json:"moods,omitempty"`
}

// Credential holds the login-capable part of an account, separate from the
// profile so that signup can create it first and roll it back if the profile
// commit fails a uniqueness check.
type Credential struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Credential) TableName() string {
	return "credentials"
}
