package repository

import (
	"context"
	"errors"

	"bondtree/internal/cache"
	"bondtree/internal/models"
	"bondtree/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByAuthorID(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error)
	GetByAuthorIDs(ctx context.Context, authorIDs []uint, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error

	React(ctx context.Context, userID, postID uint, kind string) (bool, error)
	Unreact(ctx context.Context, userID, postID uint, kind string) error
	GetReactionKinds(ctx context.Context, userID, postID uint) ([]string, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	GetComments(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id uint) error

	CreateMedia(ctx context.Context, media *models.PostMedia) error
	GetMedia(ctx context.Context, postID uint) ([]models.PostMedia, error)
	DeleteMedia(ctx context.Context, id uint) error
}

type postRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, metrics: observability.NewDatabaseMetrics(db)}
}

// applyPostDetails adds subqueries to fetch reaction and comment counts in a
// single query. The counter columns are SELECT aliases, never stored rows.
func (r *postRepository) applyPostDetails(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM reactions WHERE reactions.post_id = posts.id AND reactions.kind = 'likes') as likes_count, " +
		"(SELECT COUNT(*) FROM reactions WHERE reactions.post_id = posts.id AND reactions.kind = 'hearts') as hearts_count, " +
		"(SELECT COUNT(*) FROM reactions WHERE reactions.post_id = posts.id AND reactions.kind = 'celebrates') as celebrates_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer r.metrics.TrackQuery("create", "posts")()
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer r.metrics.TrackQuery("get_by_id", "posts")()
	var post models.Post
	if err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return r.GetByAuthorIDs(ctx, []uint{authorID}, limit, offset)
}

func (r *postRepository) GetByAuthorIDs(ctx context.Context, authorIDs []uint, limit, offset int) ([]*models.Post, error) {
	defer r.metrics.TrackQuery("get_by_authors", "posts")()
	var posts []*models.Post
	if len(authorIDs) == 0 {
		return posts, nil
	}
	if err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer r.metrics.TrackQuery("update", "posts")()
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer r.metrics.TrackQuery("delete", "posts")()
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// React records a reaction idempotently. INSERT ... ON CONFLICT DO NOTHING is
// atomic under concurrent double-taps; returns whether a new row was written.
func (r *postRepository) React(ctx context.Context, userID, postID uint, kind string) (bool, error) {
	defer r.metrics.TrackQuery("react", "reactions")()
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO reactions (user_id, post_id, kind, created_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, post_id, kind) DO NOTHING`,
		userID, postID, kind,
	)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.InvalidatePost(ctx, postID)
	}
	return result.RowsAffected > 0, nil
}

func (r *postRepository) Unreact(ctx context.Context, userID, postID uint, kind string) error {
	defer r.metrics.TrackQuery("unreact", "reactions")()
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ? AND kind = ?", userID, postID, kind).
		Delete(&models.Reaction{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// GetReactionKinds returns the reaction kinds the user has placed on a post.
func (r *postRepository) GetReactionKinds(ctx context.Context, userID, postID uint) ([]string, error) {
	defer r.metrics.TrackQuery("get_kinds", "reactions")()
	var kinds []string
	if err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Pluck("kind", &kinds).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return kinds, nil
}

func (r *postRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	defer r.metrics.TrackQuery("create", "comments")()
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (r *postRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	defer r.metrics.TrackQuery("get_by_id", "comments")()
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *postRepository) GetComments(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error) {
	defer r.metrics.TrackQuery("list", "comments")()
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *postRepository) DeleteComment(ctx context.Context, id uint) error {
	defer r.metrics.TrackQuery("delete", "comments")()
	if err := r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) CreateMedia(ctx context.Context, media *models.PostMedia) error {
	defer r.metrics.TrackQuery("create", "post_media")()
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, media.PostID)
	return nil
}

func (r *postRepository) GetMedia(ctx context.Context, postID uint) ([]models.PostMedia, error) {
	defer r.metrics.TrackQuery("list", "post_media")()
	var media []models.PostMedia
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("position ASC").
		Find(&media).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return media, nil
}

func (r *postRepository) DeleteMedia(ctx context.Context, id uint) error {
	defer r.metrics.TrackQuery("delete", "post_media")()
	if err := r.db.WithContext(ctx).Delete(&models.PostMedia{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
