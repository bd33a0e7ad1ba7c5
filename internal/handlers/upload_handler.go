package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"speaksure/internal/metrics"
	"speaksure/internal/repositories"
)

type UploadHandler struct {
	audioRepo repositories.AudioRepository
	metrics   *metrics.Metrics
}

func NewUploadHandler(audioRepo repositories.AudioRepository, m *metrics.Metrics) *UploadHandler {
	return &UploadHandler{
		audioRepo: audioRepo,
		metrics:   m,
	}
}

// HandleUpload handles POST /api/upload: store an audio blob together with
// client-computed analysis metadata.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No audio file uploaded",
		})
	}

	score, err := parseScores(c.FormValue("score", "0"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Invalid form data: %v", err),
		})
	}

	var issues []interface{}
	if err := json.Unmarshal([]byte(c.FormValue("issues", "[]")), &issues); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Invalid form data: %v", err),
		})
	}

	avgPrediction := 0.0
	if len(score) > 0 {
		sum := 0
		for _, s := range score {
			sum += s
		}
		avgPrediction = float64(sum) / float64(len(score))
	}

	metadata := bson.M{
		"score":          score,
		"avg_prediction": avgPrediction,
		"transcript":     c.FormValue("transcript", "N/A"),
		"numofwords":     c.FormValue("numofwords", "N/A"),
		"speed":          c.FormValue("speed", "N/A"),
		"noofgrammar":    c.FormValue("noofgrammar", "N/A"),
		"percentfiller":  c.FormValue("percentfiller", "N/A"),
		"issues":         issues,
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	filename := c.FormValue("filename", "default.wav")
	contentType := fileHeader.Header.Get("Content-Type")

	fileID, err := h.audioRepo.Store(c.UserContext(), filename, contentType, data, metadata)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.metrics.RecordUpload()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":        "Data Uploaded Successfully",
		"file_id":        fileID.Hex(),
		"avg_prediction": avgPrediction,
	})
}

// parseScores parses a comma-separated list of integer class labels; blank
// entries are skipped.
func parseScores(raw string) ([]int, error) {
	var scores []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid score value %q", part)
		}
		scores = append(scores, value)
	}

	return scores, nil
}
