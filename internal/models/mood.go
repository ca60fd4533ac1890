package models

import (
	"time"

	"gorm.io/gorm"
)

// MoodTag is one selected mood inside an entry. CustomMoodID is set when the
// tag came from the user's own palette rather than the built-in set.
type MoodTag struct {
	Name         string `json:"name"`
	Color        string `json:"color"`
	CustomMoodID *uint  `json:"custom_mood_id,omitempty"`
}

// MoodEntry is one timestamped journal record of 1-3 mood tags plus optional
// notes. Entries are append-only: they are never edited, only deleted whole.
type MoodEntry struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uint      `gorm:"not null;index" json:"user_id"`
	Moods  []MoodTag `gorm:"serializer:json;not null" json:"moods"`
	Notes  string    `gorm:"type:varchar(200)" json:"notes"`
	// Timestamp is epoch milliseconds and the sort key; Date and Time are
	// the display strings derived from it at append time.
	Timestamp int64          `gorm:"not null;index" json:"timestamp"`
	Date      string         `json:"date"`
	Time      string         `json:"time"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (MoodEntry) TableName() string {
	return "mood_entries"
}

// CustomMood is a user-defined mood in their personal palette. Name is unique
// per user, compared case-insensitively.
type CustomMood struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Name      string         `gorm:"not null" json:"name"`
	Color     string         `gorm:"not null" json:"color"`
	Emoji     string         `json:"emoji"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (CustomMood) TableName() string {
	return "custom_moods"
}
