// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"bondtree/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db      *gorm.DB
	rng     *rand.Rand
	presets *Presets
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, presets *Presets) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:      db,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		presets: presets,
	}
}

// CreateUser persists a user with a matching credential. All seeded accounts
// share the password "password123".
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := strings.ToLower(gofakeit.Username())
	if len(username) > 15 {
		username = username[:15]
	}
	if len(username) < 3 {
		username = username + fmt.Sprintf("%03d", f.rng.Intn(1000))
	}

	user := &models.User{
		Username:    username,
		Email:       strings.ToLower(gofakeit.Email()),
		DisplayName: gofakeit.Name(),
		Bio:         gofakeit.Sentence(8),
	}
	for _, override := range overrides {
		override(user)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	cred := &models.Credential{Email: user.Email, PasswordHash: string(hash)}
	if err := f.db.Create(cred).Error; err != nil {
		return nil, err
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateFriendship persists an accepted friendship edge between two users.
func (f *Factory) CreateFriendship(a, b *models.User) (*models.Friendship, error) {
	friendship := &models.Friendship{
		RequesterID: a.ID,
		AddresseeID: b.ID,
		Status:      models.FriendshipStatusAccepted,
	}
	if err := f.db.Create(friendship).Error; err != nil {
		return nil, err
	}
	return friendship, nil
}

// CreateMoodEntry persists a mood entry for the user with 1-3 random preset
// tags, spread over the past maxDays days.
func (f *Factory) CreateMoodEntry(user *models.User, maxDays int) (*models.MoodEntry, error) {
	if maxDays <= 0 {
		maxDays = 30
	}
	count := 1 + f.rng.Intn(3)
	tags := make([]models.MoodTag, 0, count)
	seen := map[string]struct{}{}
	for len(tags) < count {
		p := f.presets.Moods[f.rng.Intn(len(f.presets.Moods))]
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}
		tags = append(tags, models.MoodTag{Name: p.Name, Color: p.Color})
	}

	at := time.Now().Add(-time.Duration(f.rng.Intn(maxDays*24*60)) * time.Minute)
	notes := ""
	if f.rng.Intn(2) == 0 && len(f.presets.Notes) > 0 {
		notes = f.presets.Notes[f.rng.Intn(len(f.presets.Notes))]
	}

	entry := &models.MoodEntry{
		UserID:    user.ID,
		Moods:     tags,
		Notes:     notes,
		Timestamp: at.UnixMilli(),
		Date:      at.Format("2006-01-02"),
		Time:      at.Format("15:04"),
	}
	if err := f.db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// CreatePost persists a post for the user. Roughly one in four seeded posts
// is passcode protected with a preset code.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		AuthorID: user.ID,
		Title:    gofakeit.Sentence(4),
		Content:  gofakeit.Paragraph(1, 2, 6, "\n"),
		Privacy:  models.PostPrivacyPublic,
	}

	if f.rng.Intn(4) == 0 && len(f.presets.Passcodes) > 0 {
		code := f.presets.Passcodes[f.rng.Intn(len(f.presets.Passcodes))]
		hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
		if err != nil {
			return nil, err
		}
		post.Privacy = models.PostPrivacyPasscode
		post.PasscodeHash = string(hash)
	}

	daysBack := f.rng.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack*24+f.rng.Intn(24)) * time.Hour)

	for _, override := range overrides {
		override(post)
	}
	if len(post.Content) > 1000 {
		post.Content = post.Content[:1000]
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateReaction persists a reaction, ignoring duplicates.
func (f *Factory) CreateReaction(user *models.User, post *models.Post) error {
	kinds := []string{models.ReactionLikes, models.ReactionHearts, models.ReactionCelebrates}
	kind := kinds[f.rng.Intn(len(kinds))]
	return f.db.Exec(
		`INSERT INTO reactions (user_id, post_id, kind, created_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, post_id, kind) DO NOTHING`,
		user.ID, post.ID, kind,
	).Error
}

// CreateComment persists a comment by the user on the post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Content:  gofakeit.Sentence(10),
		AuthorID: user.ID,
		PostID:   post.ID,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
