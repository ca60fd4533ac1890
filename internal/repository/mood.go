package repository

import (
	"context"
	"errors"

	"bondtree/internal/models"
	"bondtree/internal/observability"

	"gorm.io/gorm"
)

// MoodRepository defines persistence operations for mood entries and
// user-defined custom moods.
type MoodRepository interface {
	CreateEntry(ctx context.Context, entry *models.MoodEntry) error
	GetEntryByID(ctx context.Context, id uint) (*models.MoodEntry, error)
	ListEntries(ctx context.Context, userID uint, limit, offset int) ([]models.MoodEntry, error)
	LatestEntry(ctx context.Context, userID uint) (*models.MoodEntry, error)
	LatestEntries(ctx context.Context, userIDs []uint) (map[uint]models.MoodEntry, error)
	DeleteEntry(ctx context.Context, id uint) error

	CreateCustomMood(ctx context.Context, mood *models.CustomMood) error
	GetCustomMoodByID(ctx context.Context, id uint) (*models.CustomMood, error)
	GetCustomMoodByName(ctx context.Context, userID uint, name string) (*models.CustomMood, error)
	ListCustomMoods(ctx context.Context, userID uint) ([]models.CustomMood, error)
	UpdateCustomMood(ctx context.Context, mood *models.CustomMood) error
	DeleteCustomMood(ctx context.Context, id uint) error
}

type moodRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewMoodRepository returns a new MoodRepository implementation.
func NewMoodRepository(db *gorm.DB) MoodRepository {
	return &moodRepository{db: db, metrics: observability.NewDatabaseMetrics(db)}
}

func (r *moodRepository) CreateEntry(ctx context.Context, entry *models.MoodEntry) error {
	defer r.metrics.TrackQuery("create", "mood_entries")()
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *moodRepository) GetEntryByID(ctx context.Context, id uint) (*models.MoodEntry, error) {
	defer r.metrics.TrackQuery("get_by_id", "mood_entries")()
	var entry models.MoodEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Mood entry", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &entry, nil
}

func (r *moodRepository) ListEntries(ctx context.Context, userID uint, limit, offset int) ([]models.MoodEntry, error) {
	defer r.metrics.TrackQuery("list", "mood_entries")()
	var entries []models.MoodEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

// LatestEntry returns the user's most recent mood entry, or nil when the
// journal is empty.
func (r *moodRepository) LatestEntry(ctx context.Context, userID uint) (*models.MoodEntry, error) {
	defer r.metrics.TrackQuery("latest", "mood_entries")()
	var entry models.MoodEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &entry, nil
}

// LatestEntries returns each user's most recent mood entry, keyed by user ID.
// Users with no entries are absent from the map.
func (r *moodRepository) LatestEntries(ctx context.Context, userIDs []uint) (map[uint]models.MoodEntry, error) {
	defer r.metrics.TrackQuery("latest_batch", "mood_entries")()
	result := make(map[uint]models.MoodEntry, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var entries []models.MoodEntry
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("timestamp DESC").
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	// Entries are ordered newest first; keep the first seen per user
	for _, e := range entries {
		if _, ok := result[e.UserID]; !ok {
			result[e.UserID] = e
		}
	}
	return result, nil
}

func (r *moodRepository) DeleteEntry(ctx context.Context, id uint) error {
	defer r.metrics.TrackQuery("delete", "mood_entries")()
	if err := r.db.WithContext(ctx).Delete(&models.MoodEntry{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *moodRepository) CreateCustomMood(ctx context.Context, mood *models.CustomMood) error {
	defer r.metrics.TrackQuery("create", "custom_moods")()
	if err := r.db.WithContext(ctx).Create(mood).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *moodRepository) GetCustomMoodByID(ctx context.Context, id uint) (*models.CustomMood, error) {
	defer r.metrics.TrackQuery("get_by_id", "custom_moods")()
	var mood models.CustomMood
	if err := r.db.WithContext(ctx).First(&mood, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Custom mood", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &mood, nil
}

func (r *moodRepository) GetCustomMoodByName(ctx context.Context, userID uint, name string) (*models.CustomMood, error) {
	defer r.metrics.TrackQuery("get_by_name", "custom_moods")()
	var mood models.CustomMood
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).
		First(&mood).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &mood, nil
}

func (r *moodRepository) ListCustomMoods(ctx context.Context, userID uint) ([]models.CustomMood, error) {
	defer r.metrics.TrackQuery("list", "custom_moods")()
	var moods []models.CustomMood
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&moods).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return moods, nil
}

func (r *moodRepository) UpdateCustomMood(ctx context.Context, mood *models.CustomMood) error {
	defer r.metrics.TrackQuery("update", "custom_moods")()
	if err := r.db.WithContext(ctx).Save(mood).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *moodRepository) DeleteCustomMood(ctx context.Context, id uint) error {
	defer r.metrics.TrackQuery("delete", "custom_moods")()
	if err := r.db.WithContext(ctx).Delete(&models.CustomMood{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
