package server

import (
	"bondtree/internal/models"
	"bondtree/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.accountService.GetProfile(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{display_name=string,bio=string,avatar=string} true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		DisplayName *string `json:"display_name"`
		Bio         *string `json:"bio"`
		Avatar      *string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.accountService.UpdateProfile(c.Context(), userID, service.ProfileUpdate{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Avatar:      req.Avatar,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
// @Summary Get user profile
// @Description Profile by ID. The latest mood entry is included when the profile belongs to the viewer or a friend.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.accountService.GetProfile(c.Context(), targetID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	resp := struct {
		*models.User
		LatestMood *models.MoodEntry `json:"latest_mood,omitempty"`
	}{User: user}

	viewerID := currentUserID(c)
	canSeeMood := viewerID == targetID
	if !canSeeMood {
		canSeeMood, err = s.friendService.AreFriends(c.Context(), viewerID, targetID)
		if err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
	}
	if canSeeMood {
		mood, err := s.moodService.LatestMood(c.Context(), targetID)
		if err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
		resp.LatestMood = mood
	}
	return c.JSON(resp)
}

// GetUserPosts handles GET /api/users/:id/posts
// @Summary Get a user's posts
// @Description One author's posts as the viewer may see them
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Param limit query int false "Page size (default 20)"
// @Param offset query int false "Offset"
// @Success 200 {array} service.PostView
// @Security BearerAuth
// @Router /users/{id}/posts [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID := currentUserID(c)
	sessionID := currentSessionID(c)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	posts, err := s.postService.ListUserPosts(c.Context(), userID, sessionID, targetID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(posts)
}
