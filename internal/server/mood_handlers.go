package server

import (
	"bondtree/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AppendMood handles POST /api/moods
// @Summary Log a mood entry
// @Description Append a mood entry of 1-3 tags with optional notes
// @Tags moods
// @Accept json
// @Produce json
// @Param request body object{moods=[]models.MoodTag,notes=string,timestamp=int} true "Mood entry"
// @Success 201 {object} models.MoodEntry
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /moods [post]
func (s *Server) AppendMood(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Moods     []models.MoodTag `json:"moods"`
		Notes     string           `json:"notes"`
		Timestamp int64            `json:"timestamp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.moodService.AppendMood(c.Context(), userID, req.Moods, req.Notes, req.Timestamp)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	s.notifyFriendsOfMood(c.Context(), userID, map[string]interface{}{
		"user_id": userID,
		"entry":   entry,
	})

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// GetMoods handles GET /api/moods
// @Summary List mood history
// @Description List the user's own mood entries, newest first
// @Tags moods
// @Produce json
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.MoodEntry
// @Security BearerAuth
// @Router /moods [get]
func (s *Server) GetMoods(c *fiber.Ctx) error {
	userID := currentUserID(c)
	p := parsePagination(c, 50)

	entries, err := s.moodService.ListMoods(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(entries)
}

// DeleteMood handles DELETE /api/moods/:id
// @Summary Delete a mood entry
// @Tags moods
// @Produce json
// @Param id path int true "Mood entry ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /moods/{id} [delete]
func (s *Server) DeleteMood(c *fiber.Ctx) error {
	userID := currentUserID(c)
	entryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moodService.DeleteMood(c.Context(), userID, entryID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Mood entry deleted"})
}

// CreateCustomMood handles POST /api/custom-moods
// @Summary Create custom mood
// @Description Add a mood to the user's personal palette
// @Tags moods
// @Accept json
// @Produce json
// @Param request body object{name=string,color=string,emoji=string} true "Custom mood"
// @Success 201 {object} models.CustomMood
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /custom-moods [post]
func (s *Server) CreateCustomMood(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
		Emoji string `json:"emoji"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	mood, err := s.moodService.CreateCustomMood(c.Context(), userID, req.Name, req.Color, req.Emoji)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(mood)
}

// GetCustomMoods handles GET /api/custom-moods
// @Summary List custom moods
// @Tags moods
// @Produce json
// @Success 200 {array} models.CustomMood
// @Security BearerAuth
// @Router /custom-moods [get]
func (s *Server) GetCustomMoods(c *fiber.Ctx) error {
	userID := currentUserID(c)

	moods, err := s.moodService.ListCustomMoods(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(moods)
}

// UpdateCustomMood handles PUT /api/custom-moods/:id
// @Summary Update custom mood
// @Tags moods
// @Accept json
// @Produce json
// @Param id path int true "Custom mood ID"
// @Param request body object{name=string,color=string,emoji=string} true "Fields to update"
// @Success 200 {object} models.CustomMood
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /custom-moods/{id} [put]
func (s *Server) UpdateCustomMood(c *fiber.Ctx) error {
	userID := currentUserID(c)
	moodID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
		Emoji string `json:"emoji"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	mood, err := s.moodService.UpdateCustomMood(c.Context(), userID, moodID, req.Name, req.Color, req.Emoji)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(mood)
}

// DeleteCustomMood handles DELETE /api/custom-moods/:id
// @Summary Delete custom mood
// @Description Remove a mood from the palette; past entries keep their snapshot
// @Tags moods
// @Produce json
// @Param id path int true "Custom mood ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /custom-moods/{id} [delete]
func (s *Server) DeleteCustomMood(c *fiber.Ctx) error {
	userID := currentUserID(c)
	moodID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moodService.DeleteCustomMood(c.Context(), userID, moodID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Custom mood deleted"})
}
