package server

import (
	"bondtree/internal/models"
	"bondtree/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
// @Summary Create post
// @Description Create a journal post; passcode privacy requires a 4-digit code
// @Tags posts
// @Accept json
// @Produce json
// @Param request body object{title=string,content=string,privacy=string,passcode=string} true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Title    string             `json:"title"`
		Content  string             `json:"content"`
		Privacy  models.PostPrivacy `json:"privacy"`
		Passcode string             `json:"passcode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), userID, service.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		Privacy:  req.Privacy,
		Passcode: req.Passcode,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetFeed handles GET /api/posts/feed
// @Summary Get feed
// @Description Posts by the viewer and their friends, shaped by visibility
// @Tags posts
// @Produce json
// @Param limit query int false "Page size (default 20)"
// @Param offset query int false "Offset"
// @Success 200 {array} service.PostView
// @Security BearerAuth
// @Router /posts/feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	userID := currentUserID(c)
	sessionID := currentSessionID(c)
	p := parsePagination(c, 20)

	feed, err := s.postService.ListFeed(c.Context(), userID, sessionID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(feed)
}

// GetPost handles GET /api/posts/:id
// @Summary Get post
// @Description Get a post as the viewer may see it; gated posts come redacted
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} service.PostView
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	sessionID := currentSessionID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	view, err := s.postService.GetPost(c.Context(), userID, sessionID, postID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(view)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body object{title=string,content=string,privacy=string,passcode=string} true "Fields to update"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title    *string             `json:"title"`
		Content  *string             `json:"content"`
		Privacy  *models.PostPrivacy `json:"privacy"`
		Passcode *string             `json:"passcode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), userID, postID, service.PostUpdate{
		Title:    req.Title,
		Content:  req.Content,
		Privacy:  req.Privacy,
		Passcode: req.Passcode,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete post
// @Description Delete a post; media blobs are cleaned up best-effort
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), userID, postID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// UnlockPost handles POST /api/posts/:id/unlock
// @Summary Unlock a passcode-protected post
// @Description Verify the author's 4-digit code; unlocks last for the session
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body object{passcode=string} true "4-digit passcode"
// @Success 200 {object} service.PostView
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/unlock [post]
func (s *Server) UnlockPost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	sessionID := currentSessionID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Passcode string `json:"passcode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.visibilityService.VerifyPasscode(c.Context(), userID, sessionID, postID, req.Passcode); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	view, err := s.postService.GetPost(c.Context(), userID, sessionID, postID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(view)
}

// ReactToPost handles POST /api/posts/:id/reactions/:kind
// @Summary React to post
// @Description Add a reaction (likes, hearts, celebrates); repeats are no-ops
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Param kind path string true "Reaction kind"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/reactions/{kind} [post]
func (s *Server) ReactToPost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	sessionID := currentSessionID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	kind := c.Params("kind")

	post, err := s.postService.React(c.Context(), userID, sessionID, postID, kind)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	s.publishUserEvent(post.AuthorID, EventPostReactionUpdated, map[string]interface{}{
		"post_id": post.ID,
		"kind":    kind,
	})

	return c.JSON(post)
}

// UnreactToPost handles DELETE /api/posts/:id/reactions/:kind
// @Summary Remove reaction
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Param kind path string true "Reaction kind"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/reactions/{kind} [delete]
func (s *Server) UnreactToPost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	sessionID := currentSessionID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	kind := c.Params("kind")

	post, err := s.postService.Unreact(c.Context(), userID, sessionID, postID, kind)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(post)
}
