package handlers

import (
	"github.com/gofiber/fiber/v2"

	"speaksure/internal/models"
	"speaksure/internal/repositories"
)

type ResultHandler struct {
	resultRepo repositories.ResultRepository
}

func NewResultHandler(resultRepo repositories.ResultRepository) *ResultHandler {
	return &ResultHandler{resultRepo: resultRepo}
}

// HandleGetResults handles GET /api/get_results.
func (h *ResultHandler) HandleGetResults(c *fiber.Ctx) error {
	results, err := h.resultRepo.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if results == nil {
		results = []models.InterviewResult{}
	}

	return c.JSON(fiber.Map{"results": results})
}
