// Package notifications provides real-time event delivery over Redis pub/sub
// and websockets.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"

	"bondtree/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Event is the payload shape delivered to websocket clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Event types pushed to clients.
const (
	EventFriendRequest  = "friend_request"
	EventFriendAccepted = "friend_accepted"
	EventFriendRemoved  = "friend_removed"
	EventMoodLogged     = "mood_logged"
	EventPostCreated    = "post_created"
	EventPostReaction   = "post_reaction"
	EventPostComment    = "post_comment"
)

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	channel := fmt.Sprintf("notifications:user:%d", userID)
	return n.rdb.Publish(ctx, channel, payload).Err()
}

// PublishUserEvent marshals the event and sends it to the user's channel.
func (n *Notifier) PublishUserEvent(ctx context.Context, userID uint, event Event) error {
	if n.rdb == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	observability.EventsPublished.WithLabelValues(event.Type).Inc()
	return n.PublishUser(ctx, userID, string(data))
}

// PublishBroadcast sends a notification payload to all connected users.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, "notifications:broadcast", payload).Err()
}

// StartPatternSubscriber subscribes to pattern `notifications:user:*` and calls onMessage
// for each incoming message. onMessage receives channel and payload.
func (n *Notifier) StartPatternSubscriber(ctx context.Context, onMessage func(channel string, payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:user:*", "notifications:broadcast")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in PatternSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
