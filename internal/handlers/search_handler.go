package handlers

import (
	"github.com/gofiber/fiber/v2"

	"speaksure/internal/models"
	"speaksure/internal/services"
)

type SearchHandler struct {
	search services.AnswerSearchService
}

func NewSearchHandler(search services.AnswerSearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// HandleSearchTranscripts handles GET /api/search_transcripts?q=&limit=.
func (h *SearchHandler) HandleSearchTranscripts(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter 'q' is required",
		})
	}

	limit := c.QueryInt("limit", 5)
	if limit < 1 || limit > 50 {
		limit = 5
	}

	matches, err := h.search.Search(c.UserContext(), query, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if matches == nil {
		matches = []models.TranscriptMatch{}
	}

	return c.JSON(fiber.Map{"results": matches})
}
