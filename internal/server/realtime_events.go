package server

import (
	"context"
	"encoding/json"
	"log"

	"bondtree/internal/observability"
)

// Event type constants prevent typos in event names.
const (
	EventFriendRequestReceived = "friend_request_received"
	EventFriendRequestAccepted = "friend_request_accepted"
	EventFriendRequestRejected = "friend_request_rejected"
	EventFriendRemoved         = "friend_removed"
	EventMoodLogged            = "mood_logged"
	EventPostReactionUpdated   = "post_reaction_updated"
	EventCommentCreated        = "comment_created"
)

func (s *Server) publishUserEvent(userID uint, eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)
	observability.EventsPublished.WithLabelValues(eventType).Inc()
	if s.hub != nil {
		s.hub.Broadcast(userID, message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishUser(context.Background(), userID, message); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
	}
}

// notifyFriendsOfMood fans a mood event out to every friend of the author.
func (s *Server) notifyFriendsOfMood(ctx context.Context, userID uint, payload map[string]interface{}) {
	friends, err := s.friendRepo.GetFriends(ctx, userID)
	if err != nil {
		log.Printf("failed to load friends for mood fanout: %v", err)
		return
	}
	for _, f := range friends {
		s.publishUserEvent(f.ID, EventMoodLogged, payload)
	}
}
