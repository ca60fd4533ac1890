package service

import (
	"context"
	"strings"

	"bondtree/internal/models"
	"bondtree/internal/observability"
	"bondtree/internal/repository"
)

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	moodRepo   repository.MoodRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository, moodRepo repository.MoodRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		moodRepo:   moodRepo,
	}
}

// FriendWithMood is a friend-list entry: the friend plus their most recent
// mood entry, if any.
type FriendWithMood struct {
	User       models.User       `json:"user"`
	LatestMood *models.MoodEntry `json:"latest_mood,omitempty"`
}

// SendFriendRequest sends a friend request to the user named by identifier
// (username or email). The stored edge references the resolved ID, so a later
// email change cannot detach the relationship.
func (s *FriendService) SendFriendRequest(ctx context.Context, userID uint, identifier string) (*models.Friendship, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, models.NewValidationError("Friend identifier is required")
	}

	target, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFoundError("User", identifier)
	}
	if target.ID == userID {
		return nil, models.NewValidationError("Cannot send a friend request to yourself")
	}

	existing, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, target.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FriendshipStatusAccepted:
			return nil, models.NewConflictError("You are already friends")
		case models.FriendshipStatusPending:
			if existing.RequesterID == userID {
				return nil, models.NewConflictError("Friend request already sent")
			}
			return nil, models.NewConflictError("This user has already sent you a friend request")
		}
	}

	friendship := &models.Friendship{
		RequesterID: userID,
		AddresseeID: target.ID,
		Status:      models.FriendshipStatusPending,
	}
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		return nil, err
	}

	observability.FriendRequestTransitions.WithLabelValues("sent").Inc()
	return s.friendRepo.GetByID(ctx, friendship.ID)
}

// GetPendingRequests returns pending friend requests addressed to the user.
func (s *FriendService) GetPendingRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetPendingRequests(ctx, userID)
}

// GetSentRequests returns pending friend requests sent by the user.
func (s *FriendService) GetSentRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetSentRequests(ctx, userID)
}

// AcceptFriendRequest accepts a pending friend request. Accepting consumes
// the request: a second accept finds no pending request and fails not-found,
// the same as accepting after a reject. The edge itself is never duplicated
// either way, since the accepted row is the one the request was made on.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, userID, requestID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if friendship.AddresseeID != userID {
		return nil, models.NewForbiddenError("You can only accept friend requests sent to you")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewNotFoundError("Pending friend request", requestID)
	}

	if err := s.friendRepo.UpdateStatus(ctx, requestID, models.FriendshipStatusAccepted); err != nil {
		return nil, err
	}

	observability.FriendRequestTransitions.WithLabelValues("accepted").Inc()
	return s.friendRepo.GetByID(ctx, requestID)
}

// RejectFriendRequest rejects or cancels a pending friend request. The row is
// deleted; the requester may send a new request later.
func (s *FriendService) RejectFriendRequest(ctx context.Context, userID, requestID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if friendship.AddresseeID != userID && friendship.RequesterID != userID {
		return nil, models.NewForbiddenError("You can only reject or cancel your own pending requests")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewConflictError("Friend request is not pending")
	}

	if err := s.friendRepo.Delete(ctx, requestID); err != nil {
		return nil, err
	}

	observability.FriendRequestTransitions.WithLabelValues("rejected").Inc()
	return friendship, nil
}

// GetFriends returns the user's friends, each with their latest mood entry.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]FriendWithMood, error) {
	friends, err := s.friendRepo.GetFriends(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(friends))
	for i, f := range friends {
		ids[i] = f.ID
	}
	latest, err := s.moodRepo.LatestEntries(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]FriendWithMood, len(friends))
	for i, f := range friends {
		entry := FriendWithMood{User: f}
		if m, ok := latest[f.ID]; ok {
			moodCopy := m
			entry.LatestMood = &moodCopy
		}
		result[i] = entry
	}
	return result, nil
}

// AreFriends reports whether an accepted friendship exists between two users.
func (s *FriendService) AreFriends(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.friendRepo.AreFriends(ctx, userID, otherID)
}

// RemoveFriend removes the friendship between two users. A single edge is
// deleted, so the bond disappears for both sides at once.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, targetUserID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if friendship == nil || friendship.Status != models.FriendshipStatusAccepted {
		return nil, models.NewNotFoundError("Friendship", targetUserID)
	}

	if err := s.friendRepo.RemoveFriendship(ctx, userID, targetUserID); err != nil {
		return nil, err
	}

	observability.FriendRequestTransitions.WithLabelValues("removed").Inc()
	return friendship, nil
}
