package server

import (
	"bondtree/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendFriendRequest handles POST /api/friends/requests
// @Summary Send friend request
// @Description Send a friend request to a user by username or email
// @Tags friends
// @Accept json
// @Produce json
// @Param request body object{identifier=string} true "Username or email of the target user"
// @Success 201 {object} models.Friendship
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends/requests [post]
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Identifier string `json:"identifier"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	friendship, err := s.friendService.SendFriendRequest(c.Context(), userID, req.Identifier)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	s.publishUserEvent(friendship.AddresseeID, EventFriendRequestReceived, map[string]interface{}{
		"request_id": friendship.ID,
		"requester":  friendship.Requester,
	})

	return c.Status(fiber.StatusCreated).JSON(friendship)
}

// GetPendingRequests handles GET /api/friends/requests
// @Summary Get pending friend requests
// @Tags friends
// @Produce json
// @Success 200 {array} models.Friendship
// @Security BearerAuth
// @Router /friends/requests [get]
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	userID := currentUserID(c)

	requests, err := s.friendService.GetPendingRequests(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(requests)
}

// GetSentRequests handles GET /api/friends/requests/sent
// @Summary Get sent friend requests
// @Tags friends
// @Produce json
// @Success 200 {array} models.Friendship
// @Security BearerAuth
// @Router /friends/requests/sent [get]
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	userID := currentUserID(c)

	requests, err := s.friendService.GetSentRequests(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(requests)
}

// AcceptFriendRequest handles POST /api/friends/requests/:requestId/accept
// @Summary Accept friend request
// @Description Accept a pending friend request addressed to you. Once accepted the request is gone; accepting it again returns 404.
// @Tags friends
// @Produce json
// @Param requestId path int true "Friend request ID"
// @Success 200 {object} models.Friendship
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends/requests/{requestId}/accept [post]
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	userID := currentUserID(c)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	friendship, err := s.friendService.AcceptFriendRequest(c.Context(), userID, requestID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	s.publishUserEvent(friendship.RequesterID, EventFriendRequestAccepted, map[string]interface{}{
		"request_id": friendship.ID,
		"addressee":  friendship.Addressee,
	})

	return c.JSON(friendship)
}

// RejectFriendRequest handles POST /api/friends/requests/:requestId/reject
// @Summary Reject or cancel friend request
// @Tags friends
// @Produce json
// @Param requestId path int true "Friend request ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends/requests/{requestId}/reject [post]
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	userID := currentUserID(c)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	friendship, err := s.friendService.RejectFriendRequest(c.Context(), userID, requestID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	// Tell the other party; a cancelled request matters to the addressee,
	// a rejection matters to the requester.
	other := friendship.RequesterID
	if other == userID {
		other = friendship.AddresseeID
	}
	s.publishUserEvent(other, EventFriendRequestRejected, map[string]interface{}{
		"request_id": friendship.ID,
	})

	return c.JSON(fiber.Map{"message": "Friend request removed"})
}

// GetFriends handles GET /api/friends
// @Summary List friends
// @Description List the user's friends, each with their latest mood entry
// @Tags friends
// @Produce json
// @Success 200 {array} service.FriendWithMood
// @Security BearerAuth
// @Router /friends [get]
func (s *Server) GetFriends(c *fiber.Ctx) error {
	userID := currentUserID(c)

	friends, err := s.friendService.GetFriends(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(friends)
}

// RemoveFriend handles DELETE /api/friends/:userId
// @Summary Remove friend
// @Description Remove the friendship; the bond disappears for both users
// @Tags friends
// @Produce json
// @Param userId path int true "Friend's user ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends/{userId} [delete]
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	userID := currentUserID(c)
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if _, err := s.friendService.RemoveFriend(c.Context(), userID, targetID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	s.publishUserEvent(targetID, EventFriendRemoved, map[string]interface{}{
		"user_id": userID,
	})

	return c.JSON(fiber.Map{"message": "Friend removed"})
}
