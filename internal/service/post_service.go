package service

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"bondtree/internal/middleware"
	"bondtree/internal/models"
	"bondtree/internal/observability"
	"bondtree/internal/repository"
	"bondtree/internal/storage"
	"bondtree/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MaxPostContentLength bounds the body of a post.
	MaxPostContentLength = 1000
	// MaxCommentLength bounds a single comment.
	MaxCommentLength = 500
	// MaxMediaPerPost bounds attachments on one post.
	MaxMediaPerPost = 4
)

// PostService provides post, reaction, comment and media business logic.
type PostService struct {
	postRepo   repository.PostRepository
	friendRepo repository.FriendRepository
	visibility *VisibilityService
	store      storage.BlobStore
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, friendRepo repository.FriendRepository, visibility *VisibilityService, store storage.BlobStore) *PostService {
	return &PostService{
		postRepo:   postRepo,
		friendRepo: friendRepo,
		visibility: visibility,
		store:      store,
	}
}

// PostInput carries the fields of a post create request.
type PostInput struct {
	Title    string
	Content  string
	Privacy  models.PostPrivacy
	Passcode string
}

// CreatePost creates a post for the author. Passcode-protected posts must
// supply a valid 4-digit code, which is stored only as a bcrypt hash.
func (s *PostService) CreatePost(ctx context.Context, authorID uint, in PostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Post content is required")
	}
	if len(content) > MaxPostContentLength {
		return nil, models.NewValidationError("Post content cannot exceed 1000 characters")
	}

	privacy := in.Privacy
	if privacy == "" {
		privacy = models.PostPrivacyPublic
	}
	if privacy != models.PostPrivacyPublic && privacy != models.PostPrivacyPasscode {
		return nil, models.NewValidationError("Privacy must be public or passcode")
	}

	post := &models.Post{
		AuthorID: authorID,
		Title:    strings.TrimSpace(in.Title),
		Content:  content,
		Privacy:  privacy,
	}

	if privacy == models.PostPrivacyPasscode {
		hash, err := hashPasscode(in.Passcode)
		if err != nil {
			return nil, err
		}
		post.PasscodeHash = hash
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func hashPasscode(code string) (string, error) {
	if code == "" {
		return "", models.NewValidationError("A passcode is required for passcode-protected posts")
	}
	if err := validation.ValidatePasscode(code); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(hash), nil
}

// PostUpdate carries the mutable post fields. Nil means unchanged.
type PostUpdate struct {
	Title    *string
	Content  *string
	Privacy  *models.PostPrivacy
	Passcode *string
}

// UpdatePost applies a partial update to the author's own post. Switching to
// passcode privacy requires a passcode unless one is already set; switching
// to public clears the stored hash.
func (s *PostService) UpdatePost(ctx context.Context, authorID, postID uint, update PostUpdate) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != authorID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if update.Title != nil {
		post.Title = strings.TrimSpace(*update.Title)
	}
	if update.Content != nil {
		content := strings.TrimSpace(*update.Content)
		if content == "" {
			return nil, models.NewValidationError("Post content is required")
		}
		if len(content) > MaxPostContentLength {
			return nil, models.NewValidationError("Post content cannot exceed 1000 characters")
		}
		post.Content = content
	}
	if update.Privacy != nil {
		switch *update.Privacy {
		case models.PostPrivacyPublic:
			post.Privacy = models.PostPrivacyPublic
			post.PasscodeHash = ""
		case models.PostPrivacyPasscode:
			post.Privacy = models.PostPrivacyPasscode
			if update.Passcode == nil && post.PasscodeHash == "" {
				return nil, models.NewValidationError("A passcode is required for passcode-protected posts")
			}
		default:
			return nil, models.NewValidationError("Privacy must be public or passcode")
		}
	}
	if update.Passcode != nil && post.Privacy == models.PostPrivacyPasscode {
		hash, err := hashPasscode(*update.Passcode)
		if err != nil {
			return nil, err
		}
		post.PasscodeHash = hash
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// DeletePost deletes the author's own post. Media blobs are cleaned up
// best-effort: a failed blob delete is logged and counted, never surfaced.
func (s *PostService) DeletePost(ctx context.Context, authorID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != authorID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	media, err := s.postRepo.GetMedia(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	for _, m := range media {
		if err := s.store.Delete(m.StoragePath); err != nil {
			observability.MediaCleanupFailures.Inc()
			middleware.Logger.Warn("Failed to delete media blob",
				slog.Uint64("post_id", uint64(postID)),
				slog.String("path", m.StoragePath),
				slog.String("error", err.Error()),
			)
		}
		if m.Thumbnail != "" {
			if err := s.store.Delete(m.Thumbnail); err != nil {
				observability.MediaCleanupFailures.Inc()
			}
		}
	}
	return nil
}

// GetPost returns the post as the viewer is allowed to see it, with the
// viewer's own reactions marked.
func (s *PostService) GetPost(ctx context.Context, viewerID uint, sessionID string, postID uint) (*PostView, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	view, err := s.visibility.View(ctx, viewerID, sessionID, post)
	if err != nil {
		return nil, err
	}

	kinds, err := s.postRepo.GetReactionKinds(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	view.ViewerReactions = kinds
	return view, nil
}

// ListFeed returns posts by the viewer and their friends, newest first, each
// shaped by the viewer's visibility. Denied posts never reach the feed.
func (s *PostService) ListFeed(ctx context.Context, viewerID uint, sessionID string, limit, offset int) ([]PostView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	friends, err := s.friendRepo.GetFriends(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	authorIDs := make([]uint, 0, len(friends)+1)
	authorIDs = append(authorIDs, viewerID)
	for _, f := range friends {
		authorIDs = append(authorIDs, f.ID)
	}

	posts, err := s.postRepo.GetByAuthorIDs(ctx, authorIDs, limit, offset)
	if err != nil {
		return nil, err
	}

	feed := make([]PostView, 0, len(posts))
	for _, p := range posts {
		view, err := s.visibility.View(ctx, viewerID, sessionID, p)
		if err != nil {
			if models.StatusForError(err) == 404 {
				continue
			}
			return nil, err
		}
		feed = append(feed, *view)
	}
	return feed, nil
}

// ListUserPosts returns one author's posts as seen by the viewer.
func (s *PostService) ListUserPosts(ctx context.Context, viewerID uint, sessionID string, authorID uint, limit, offset int) ([]PostView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := s.postRepo.GetByAuthorID(ctx, authorID, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		view, err := s.visibility.View(ctx, viewerID, sessionID, p)
		if err != nil {
			if models.StatusForError(err) == 404 {
				continue
			}
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// React records a reaction on a post the viewer can see. Repeats of the same
// kind by the same viewer are no-ops; the count moves at most once.
func (s *PostService) React(ctx context.Context, viewerID uint, sessionID string, postID uint, kind string) (*models.Post, error) {
	if !models.IsValidReactionKind(kind) {
		return nil, models.NewValidationError("Unknown reaction kind")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	vis, err := s.visibility.Resolve(ctx, viewerID, sessionID, post)
	if err != nil {
		return nil, err
	}
	if vis == VisibilityDenied {
		return nil, models.NewNotFoundError("Post", postID)
	}

	if _, err := s.postRepo.React(ctx, viewerID, postID, kind); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// Unreact removes the viewer's reaction of the given kind, if present.
func (s *PostService) Unreact(ctx context.Context, viewerID uint, sessionID string, postID uint, kind string) (*models.Post, error) {
	if !models.IsValidReactionKind(kind) {
		return nil, models.NewValidationError("Unknown reaction kind")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	vis, err := s.visibility.Resolve(ctx, viewerID, sessionID, post)
	if err != nil {
		return nil, err
	}
	if vis == VisibilityDenied {
		return nil, models.NewNotFoundError("Post", postID)
	}

	if err := s.postRepo.Unreact(ctx, viewerID, postID, kind); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// AddComment adds a comment on a post the viewer can fully see. Gated posts
// require an unlock before commenting.
func (s *PostService) AddComment(ctx context.Context, viewerID uint, sessionID string, postID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > MaxCommentLength {
		return nil, models.NewValidationError("Comment cannot exceed 500 characters")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	vis, err := s.visibility.Resolve(ctx, viewerID, sessionID, post)
	if err != nil {
		return nil, err
	}
	if vis == VisibilityDenied {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if vis == VisibilityGated {
		return nil, models.NewForbiddenError("Unlock this post before commenting")
	}

	comment := &models.Comment{
		Content:  content,
		AuthorID: viewerID,
		PostID:   postID,
	}
	if err := s.postRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return s.postRepo.GetCommentByID(ctx, comment.ID)
}

// GetComments lists a post's comments for a viewer who can see the post.
func (s *PostService) GetComments(ctx context.Context, viewerID uint, sessionID string, postID uint, limit, offset int) ([]models.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	vis, err := s.visibility.Resolve(ctx, viewerID, sessionID, post)
	if err != nil {
		return nil, err
	}
	if vis == VisibilityDenied {
		return nil, models.NewNotFoundError("Post", postID)
	}

	return s.postRepo.GetComments(ctx, postID, limit, offset)
}

// DeleteComment deletes a comment. Allowed for the comment's author and for
// the author of the post it sits on.
func (s *PostService) DeleteComment(ctx context.Context, viewerID, commentID uint) error {
	comment, err := s.postRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != viewerID {
		post, err := s.postRepo.GetByID(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post.AuthorID != viewerID {
			return models.NewForbiddenError("You can only delete your own comments or comments on your posts")
		}
	}
	return s.postRepo.DeleteComment(ctx, commentID)
}

// AttachMedia stores an uploaded file for the author's post and records the
// attachment. Image uploads get a WebP thumbnail; thumbnail failures are
// non-fatal.
func (s *PostService) AttachMedia(ctx context.Context, authorID, postID uint, filename string, data []byte, mediaType models.MediaType) (*models.PostMedia, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != authorID {
		return nil, models.NewForbiddenError("You can only attach media to your own posts")
	}

	existing, err := s.postRepo.GetMedia(ctx, postID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= MaxMediaPerPost {
		return nil, models.NewValidationError("A post can have at most 4 attachments")
	}

	if mediaType != models.MediaTypeImage && mediaType != models.MediaTypeVideo {
		return nil, models.NewValidationError("Media type must be image or video")
	}

	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return nil, models.NewValidationError("File must have an extension")
	}

	storagePath, url, err := s.store.Save(bytes.NewReader(data), ext)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	media := &models.PostMedia{
		PostID:      postID,
		URL:         url,
		Type:        mediaType,
		StoragePath: storagePath,
		Position:    len(existing),
	}

	if mediaType == models.MediaTypeImage {
		if thumb, err := storage.GenerateThumbnail(data); err == nil {
			thumbPath := strings.TrimSuffix(storagePath, "."+ext) + "_thumb.webp"
			if _, err := s.store.SaveBytes(thumb, thumbPath); err == nil {
				media.Thumbnail = thumbPath
			}
		} else {
			middleware.Logger.Warn("Failed to generate thumbnail",
				slog.Uint64("post_id", uint64(postID)),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.postRepo.CreateMedia(ctx, media); err != nil {
		if delErr := s.store.Delete(storagePath); delErr != nil {
			observability.MediaCleanupFailures.Inc()
		}
		return nil, err
	}
	return media, nil
}
