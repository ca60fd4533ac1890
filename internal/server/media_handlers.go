package server

import (
	"io"
	"path/filepath"
	"strings"

	"bondtree/internal/models"

	"github.com/gofiber/fiber/v2"
)

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".webm": {}, ".mov": {},
}

// UploadPostMedia handles POST /api/posts/:id/media
// @Summary Upload post media
// @Description Attach an image or video to the author's own post
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Post ID"
// @Param file formData file true "Media file"
// @Success 201 {object} models.PostMedia
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/media [post]
func (s *Server) UploadPostMedia(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A file upload is required"))
	}

	maxBytes := int64(s.config.MediaMaxUploadSizeMB) * 1024 * 1024
	if fileHeader.Size > maxBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File exceeds the maximum upload size"))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	var mediaType models.MediaType
	if _, ok := imageExtensions[ext]; ok {
		mediaType = models.MediaTypeImage
	} else if _, ok := videoExtensions[ext]; ok {
		mediaType = models.MediaTypeVideo
	} else {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unsupported file type"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if int64(len(data)) > maxBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File exceeds the maximum upload size"))
	}

	media, err := s.postService.AttachMedia(c.Context(), userID, postID, fileHeader.Filename, data, mediaType)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(media)
}
