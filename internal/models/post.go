package models

import (
	"time"

	"gorm.io/gorm"
)

// PostPrivacy is the visibility policy of a post.
type PostPrivacy string

const (
	// PostPrivacyPublic means visible to all of the author's friends.
	PostPrivacyPublic PostPrivacy = "public"
	// PostPrivacyPasscode means friends must additionally enter the
	// author's 4-digit code to read the content.
	PostPrivacyPasscode PostPrivacy = "passcode"
)

// Reaction kinds. One row per (user, post, kind); counters are computed.
const (
	ReactionLikes      = "likes"
	ReactionHearts     = "hearts"
	ReactionCelebrates = "celebrates"
)

// Post represents a journal post in the Bond Tree application.
// Invariant: Privacy == passcode implies PasscodeHash is non-empty.
type Post struct {
	ID       uint        `gorm:"primaryKey" json:"id"`
	AuthorID uint        `gorm:"not null;index" json:"author_id"`
	Author   User        `gorm:"foreignKey:AuthorID" json:"author"`
	Title    string      `json:"title"`
	Content  string      `gorm:"type:varchar(1000);not null" json:"content"`
	Privacy  PostPrivacy `gorm:"type:varchar(20);default:'public'" json:"privacy"`
	// PasscodeHash is a bcrypt hash of the 4-digit code; never the raw code.
	PasscodeHash string      `json:"-"`
	Media        []PostMedia `gorm:"foreignKey:PostID" json:"media,omitempty"`
	// Reaction counters are not persisted; computed at query time
	LikesCount      int `gorm:"->" json:"likes_count"`
	HeartsCount     int `gorm:"->" json:"hearts_count"`
	CelebratesCount int `gorm:"->" json:"celebrates_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int            `gorm:"->" json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// MediaType distinguishes images from videos in post attachments.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// PostMedia is one attachment of a post, ordered by Position. StoragePath is
// the blob store key used for deletion; Thumbnail is the derived preview path
// (images only).
type PostMedia struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"not null;index" json:"post_id"`
	URL         string    `gorm:"not null" json:"url"`
	Type        MediaType `gorm:"type:varchar(10);not null" json:"type"`
	StoragePath string    `gorm:"not null" json:"storage_path"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Position    int       `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (PostMedia) TableName() string {
	return "post_media"
}

// Reaction records one viewer's reaction of a given kind on a post.
// The combination of UserID, PostID and Kind must be unique.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post_kind" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post_kind" json:"post_id"`
	Kind      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_post_kind" json:"kind"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

// Comment represents a comment on a post.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"not null" json:"content"`
	AuthorID  uint           `gorm:"not null" json:"author_id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	Post      Post           `gorm:"foreignKey:PostID" json:"post,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsValidReactionKind reports whether kind names a supported reaction counter.
func IsValidReactionKind(kind string) bool {
	switch kind {
	case ReactionLikes, ReactionHearts, ReactionCelebrates:
		return true
	}
	return false
}
