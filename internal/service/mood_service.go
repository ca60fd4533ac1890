package service

import (
	"context"
	"strings"
	"time"

	"bondtree/internal/models"
	"bondtree/internal/repository"
)

const (
	// MaxMoodsPerEntry bounds a single entry's selection.
	MaxMoodsPerEntry = 3
	// MaxMoodNotesLength bounds the optional notes field.
	MaxMoodNotesLength = 200
)

// MoodService provides mood journal and custom mood palette business logic.
type MoodService struct {
	moodRepo repository.MoodRepository
}

// NewMoodService returns a new MoodService.
func NewMoodService(moodRepo repository.MoodRepository) *MoodService {
	return &MoodService{moodRepo: moodRepo}
}

// AppendMood records a new mood entry for the user. The selection must be
// non-empty; oversized selections keep the most recent MaxMoodsPerEntry tags
// (the tail of the submitted list) rather than failing the whole entry.
func (s *MoodService) AppendMood(ctx context.Context, userID uint, moods []models.MoodTag, notes string, timestamp int64) (*models.MoodEntry, error) {
	if len(moods) == 0 {
		return nil, models.NewValidationError("Select at least one mood")
	}
	for _, m := range moods {
		if strings.TrimSpace(m.Name) == "" {
			return nil, models.NewValidationError("Mood name cannot be empty")
		}
	}
	if len(moods) > MaxMoodsPerEntry {
		moods = moods[len(moods)-MaxMoodsPerEntry:]
	}

	notes = strings.TrimSpace(notes)
	if len(notes) > MaxMoodNotesLength {
		return nil, models.NewValidationError("Notes cannot exceed 200 characters")
	}

	if timestamp <= 0 {
		timestamp = time.Now().UnixMilli()
	}
	at := time.UnixMilli(timestamp)

	entry := &models.MoodEntry{
		UserID:    userID,
		Moods:     moods,
		Notes:     notes,
		Timestamp: timestamp,
		Date:      at.Format("2006-01-02"),
		Time:      at.Format("15:04"),
	}
	if err := s.moodRepo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// LatestMood returns the user's most recent mood entry, or nil when the
// journal is empty. Shown on profiles the viewer is allowed to see.
func (s *MoodService) LatestMood(ctx context.Context, userID uint) (*models.MoodEntry, error) {
	return s.moodRepo.LatestEntry(ctx, userID)
}

// ListMoods returns the user's mood history, newest first.
func (s *MoodService) ListMoods(ctx context.Context, userID uint, limit, offset int) ([]models.MoodEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.moodRepo.ListEntries(ctx, userID, limit, offset)
}

// DeleteMood deletes one of the user's own mood entries.
func (s *MoodService) DeleteMood(ctx context.Context, userID, entryID uint) error {
	entry, err := s.moodRepo.GetEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return models.NewForbiddenError("You can only delete your own mood entries")
	}
	return s.moodRepo.DeleteEntry(ctx, entryID)
}

// CreateCustomMood adds a mood to the user's palette. Names are unique per
// user, compared case-insensitively.
func (s *MoodService) CreateCustomMood(ctx context.Context, userID uint, name, color, emoji string) (*models.CustomMood, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Mood name is required")
	}
	if len(name) > 30 {
		return nil, models.NewValidationError("Mood name cannot exceed 30 characters")
	}
	if strings.TrimSpace(color) == "" {
		return nil, models.NewValidationError("Mood color is required")
	}

	existing, err := s.moodRepo.GetCustomMoodByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("A mood with this name already exists")
	}

	mood := &models.CustomMood{
		UserID: userID,
		Name:   name,
		Color:  color,
		Emoji:  emoji,
	}
	if err := s.moodRepo.CreateCustomMood(ctx, mood); err != nil {
		return nil, err
	}
	return mood, nil
}

// ListCustomMoods returns the user's custom mood palette.
func (s *MoodService) ListCustomMoods(ctx context.Context, userID uint) ([]models.CustomMood, error) {
	return s.moodRepo.ListCustomMoods(ctx, userID)
}

// UpdateCustomMood updates a mood in the user's palette.
func (s *MoodService) UpdateCustomMood(ctx context.Context, userID, moodID uint, name, color, emoji string) (*models.CustomMood, error) {
	mood, err := s.moodRepo.GetCustomMoodByID(ctx, moodID)
	if err != nil {
		return nil, err
	}
	if mood.UserID != userID {
		return nil, models.NewForbiddenError("You can only edit your own custom moods")
	}

	name = strings.TrimSpace(name)
	if name != "" && !strings.EqualFold(name, mood.Name) {
		existing, err := s.moodRepo.GetCustomMoodByName(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewConflictError("A mood with this name already exists")
		}
		mood.Name = name
	}
	if strings.TrimSpace(color) != "" {
		mood.Color = color
	}
	if emoji != "" {
		mood.Emoji = emoji
	}

	if err := s.moodRepo.UpdateCustomMood(ctx, mood); err != nil {
		return nil, err
	}
	return mood, nil
}

// DeleteCustomMood removes a mood from the user's palette. Past entries that
// referenced it keep their embedded tag snapshot.
func (s *MoodService) DeleteCustomMood(ctx context.Context, userID, moodID uint) error {
	mood, err := s.moodRepo.GetCustomMoodByID(ctx, moodID)
	if err != nil {
		return err
	}
	if mood.UserID != userID {
		return models.NewForbiddenError("You can only delete your own custom moods")
	}
	return s.moodRepo.DeleteCustomMood(ctx, moodID)
}
