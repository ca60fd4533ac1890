package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix   = "user:%d"
	PostKeyPrefix   = "post:%d"
	FeedKeyPrefix   = "feed:%d"
	UnlockKeyPrefix = "unlock:%s:%d"
)

const (
	UserTTL = 5 * time.Minute
	PostTTL = 30 * time.Minute
	FeedTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func FeedKey(viewerID uint) string {
	return fmt.Sprintf(FeedKeyPrefix, viewerID)
}

// UnlockKey marks a passcode unlock for a (session, post) pair. Keyed by the
// JWT session ID so unlocks never outlive the login session.
func UnlockKey(sessionID string, postID uint) string {
	return fmt.Sprintf(UnlockKeyPrefix, sessionID, postID)
}

// MarkUnlocked records a successful passcode verification for the session.
// The marker expires with ttl and is also gone when the session's JWT rotates.
func MarkUnlocked(ctx context.Context, sessionID string, postID uint, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	return client.Set(ctx, UnlockKey(sessionID, postID), "1", ttl).Err()
}

// IsUnlocked reports whether the session has already verified the post's
// passcode. Errors degrade to false so a Redis outage re-gates content
// rather than exposing it.
func IsUnlocked(ctx context.Context, sessionID string, postID uint) bool {
	if client == nil {
		return false
	}
	n, err := client.Exists(ctx, UnlockKey(sessionID, postID)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}
