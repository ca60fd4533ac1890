package service

import (
	"context"
	"time"

	"bondtree/internal/cache"
	"bondtree/internal/models"
	"bondtree/internal/observability"
	"bondtree/internal/repository"
	"bondtree/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// Visibility is the outcome of resolving a viewer against a post.
type Visibility string

const (
	// VisibilityFull grants the complete post including content and media.
	VisibilityFull Visibility = "full"
	// VisibilityGated grants metadata only; the content stays hidden until
	// the viewer verifies the author's passcode.
	VisibilityGated Visibility = "gated"
	// VisibilityDenied hides the post entirely.
	VisibilityDenied Visibility = "denied"
)

// PostView pairs a post with the visibility it was resolved at. Gated views
// carry a redacted copy. ViewerReactions lists the reaction kinds the viewer
// has already placed on the post, so a client can render the toggled state
// without a second request.
type PostView struct {
	*models.Post
	Visibility      Visibility `json:"visibility"`
	ViewerReactions []string   `json:"viewer_reactions,omitempty"`
}

// VisibilityService decides what a viewer may see of a post and handles
// passcode verification. Unlocks are recorded per login session, so they
// expire with the session and never leak across devices.
type VisibilityService struct {
	postRepo   repository.PostRepository
	friendRepo repository.FriendRepository
	unlockTTL  time.Duration
}

// NewVisibilityService returns a new VisibilityService.
func NewVisibilityService(postRepo repository.PostRepository, friendRepo repository.FriendRepository, unlockTTL time.Duration) *VisibilityService {
	if unlockTTL <= 0 {
		unlockTTL = 30 * time.Minute
	}
	return &VisibilityService{
		postRepo:   postRepo,
		friendRepo: friendRepo,
		unlockTTL:  unlockTTL,
	}
}

// Resolve returns the viewer's visibility for the post. Authors always see
// their own posts in full, gated or not.
func (s *VisibilityService) Resolve(ctx context.Context, viewerID uint, sessionID string, post *models.Post) (Visibility, error) {
	if post.AuthorID == viewerID {
		return VisibilityFull, nil
	}

	friends, err := s.friendRepo.AreFriends(ctx, viewerID, post.AuthorID)
	if err != nil {
		return VisibilityDenied, err
	}
	if !friends {
		return VisibilityDenied, nil
	}

	if post.Privacy != models.PostPrivacyPasscode {
		return VisibilityFull, nil
	}
	if cache.IsUnlocked(ctx, sessionID, post.ID) {
		return VisibilityFull, nil
	}
	return VisibilityGated, nil
}

// View resolves visibility and returns the post shaped accordingly, or a
// not-found error when the post is denied. Denied posts are indistinguishable
// from missing ones.
func (s *VisibilityService) View(ctx context.Context, viewerID uint, sessionID string, post *models.Post) (*PostView, error) {
	vis, err := s.Resolve(ctx, viewerID, sessionID, post)
	if err != nil {
		return nil, err
	}
	switch vis {
	case VisibilityDenied:
		return nil, models.NewNotFoundError("Post", post.ID)
	case VisibilityGated:
		return &PostView{Post: Redact(post), Visibility: VisibilityGated}, nil
	default:
		return &PostView{Post: post, Visibility: VisibilityFull}, nil
	}
}

// Redact returns a copy of the post with the protected fields stripped.
// Counters and author metadata stay visible so the feed can render a teaser.
func Redact(post *models.Post) *models.Post {
	redacted := *post
	redacted.Content = ""
	redacted.Media = nil
	return &redacted
}

// VerifyPasscode checks the submitted code against the post's passcode and,
// on success, unlocks the post for the rest of the session. Format is
// rejected before any hash comparison.
func (s *VisibilityService) VerifyPasscode(ctx context.Context, viewerID uint, sessionID string, postID uint, code string) error {
	if err := validation.ValidatePasscode(code); err != nil {
		observability.PasscodeVerifications.WithLabelValues("invalid_format").Inc()
		return models.NewValidationError(err.Error())
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	vis, err := s.Resolve(ctx, viewerID, sessionID, post)
	if err != nil {
		return err
	}
	if vis == VisibilityDenied {
		return models.NewNotFoundError("Post", postID)
	}
	if post.Privacy != models.PostPrivacyPasscode {
		return models.NewValidationError("Post is not passcode protected")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(post.PasscodeHash), []byte(code)); err != nil {
		observability.PasscodeVerifications.WithLabelValues("wrong_code").Inc()
		return models.NewForbiddenError("Incorrect passcode")
	}

	observability.PasscodeVerifications.WithLabelValues("ok").Inc()
	if err := cache.MarkUnlocked(ctx, sessionID, postID, s.unlockTTL); err != nil {
		// Verification stands; the viewer just has to re-enter the code
		// on the next read if the marker was lost.
		observability.RedisErrors.WithLabelValues("set").Inc()
	}
	return nil
}
