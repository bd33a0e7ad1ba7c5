package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"speaksure/internal/repositories"
)

// LibraryHandler serves the stored-audio catalog endpoints.
type LibraryHandler struct {
	audioRepo repositories.AudioRepository
}

func NewLibraryHandler(audioRepo repositories.AudioRepository) *LibraryHandler {
	return &LibraryHandler{audioRepo: audioRepo}
}

// HandleGetFilenames handles GET /api/get_filenames.
func (h *LibraryHandler) HandleGetFilenames(c *fiber.Ctx) error {
	files, err := h.audioRepo.ListFiles(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if len(files) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No files found",
		})
	}

	return c.JSON(fiber.Map{"files": files})
}

// HandleGetAudio handles GET /api/get_audio?filename=.
func (h *LibraryHandler) HandleGetAudio(c *fiber.Ctx) error {
	filename := c.Query("filename")
	if filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Filename is required",
		})
	}

	data, _, err := h.audioRepo.GetByName(c.UserContext(), filename)
	if err != nil {
		if err == repositories.ErrFileNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "File not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "audio/wav")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

// HandleGetMetadata handles GET /api/get_metadata?filename=.
func (h *LibraryHandler) HandleGetMetadata(c *fiber.Ctx) error {
	filename := c.Query("filename")
	if filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Filename is required",
		})
	}

	metadata, err := h.audioRepo.GetMetadataByName(c.UserContext(), filename)
	if err != nil {
		if err == repositories.ErrFileNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "File not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"metadata": metadata})
}

// HandleDeleteAudio handles DELETE /api/delete_audio?filename=.
func (h *LibraryHandler) HandleDeleteAudio(c *fiber.Ctx) error {
	filename := c.Query("filename")
	if filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Filename is required",
		})
	}

	if err := h.audioRepo.DeleteByName(c.UserContext(), filename); err != nil {
		if err == repositories.ErrFileNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "File not found or failed to delete",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("File '%s' deleted successfully", filename),
	})
}
