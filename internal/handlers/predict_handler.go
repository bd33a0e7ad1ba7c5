package handlers

import (
	"bytes"
	"context"
	"log"
	"mime/multipart"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"speaksure/internal/metrics"
	"speaksure/internal/models"
	"speaksure/internal/repositories"
	"speaksure/internal/services"
)

// reservedFormFields are consumed by the handler itself; everything else in
// the form rides along into the persisted metadata.
var reservedFormFields = map[string]bool{
	"question":     true,
	"interview_id": true,
	"name":         true,
}

type PredictHandler struct {
	storage     services.StorageService
	decoder     services.AudioDecoder
	predictor   services.PredictorService
	transcriber services.TranscriberService
	grammar     services.GrammarService
	feedback    services.FeedbackService
	search      services.AnswerSearchService
	resultRepo  repositories.ResultRepository
	metrics     *metrics.Metrics
}

func NewPredictHandler(
	storage services.StorageService,
	decoder services.AudioDecoder,
	predictor services.PredictorService,
	transcriber services.TranscriberService,
	grammar services.GrammarService,
	feedback services.FeedbackService,
	search services.AnswerSearchService,
	resultRepo repositories.ResultRepository,
	m *metrics.Metrics,
) *PredictHandler {
	return &PredictHandler{
		storage:     storage,
		decoder:     decoder,
		predictor:   predictor,
		transcriber: transcriber,
		grammar:     grammar,
		feedback:    feedback,
		search:      search,
		resultRepo:  resultRepo,
		metrics:     m,
	}
}

// HandlePredict handles POST /api/predict: validate the upload, run the
// analysis pipeline, persist the answer metadata.
func (h *PredictHandler) HandlePredict(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	filename := strings.ToLower(fileHeader.Filename)
	if !strings.HasSuffix(filename, ".wav") && !strings.HasSuffix(filename, ".webm") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported file type. Only .wav or .webm allowed",
		})
	}

	h.metrics.RecordPredictionStart(int(fileHeader.Size))
	started := time.Now()

	err = h.analyze(c.UserContext(), fileHeader, extractForm(c))

	h.metrics.RecordPredictionEnd(err == nil, time.Since(started).Seconds())

	if err != nil {
		log.Printf("❌ Prediction error: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "OK"})
}

type predictForm struct {
	Question    string
	InterviewID string
	Name        string
	Extra       map[string]string
}

func extractForm(c *fiber.Ctx) *predictForm {
	form := &predictForm{
		Question:    c.FormValue("question", "N/A"),
		InterviewID: c.FormValue("interview_id"),
		Name:        c.FormValue("name"),
	}

	if mf, err := c.MultipartForm(); err == nil {
		for key, values := range mf.Value {
			if reservedFormFields[key] || len(values) == 0 {
				continue
			}
			if form.Extra == nil {
				form.Extra = make(map[string]string)
			}
			form.Extra[key] = values[0]
		}
	}

	return form
}

// analyze runs the full pipeline: temp-file plumbing, one decode, concurrent
// prediction + transcription, then concurrent feedback + grammar check, then
// the interview-result upsert. Temp files are removed on every exit path.
func (h *PredictHandler) analyze(ctx context.Context, fileHeader *multipart.FileHeader, form *predictForm) error {
	var tempPaths []string
	defer func() {
		for _, path := range tempPaths {
			h.storage.Remove(path)
		}
	}()

	wavPath, err := h.prepareWav(ctx, fileHeader, &tempPaths)
	if err != nil {
		return err
	}

	audioBytes, err := os.ReadFile(wavPath)
	if err != nil {
		return err
	}

	waveform, err := h.decoder.Decode(bytes.NewReader(audioBytes))
	if err != nil {
		return err
	}

	// Stage 1: two independent multi-second calls, overlapped so the wall
	// clock cost is max(prediction, transcription) rather than their sum.
	var (
		sequence   []int
		avg        float64
		transcript *services.TranscriptResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		started := time.Now()
		var err error
		sequence, avg, err = h.predictor.Predict(gctx, waveform)
		h.metrics.RecordAdapterCall("predictor", err, time.Since(started).Seconds())
		return err
	})
	g.Go(func() error {
		started := time.Now()
		var err error
		transcript, err = h.transcriber.Transcribe(gctx, audioBytes, waveform.Duration())
		h.metrics.RecordAdapterCall("transcriber", err, time.Since(started).Seconds())
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	h.metrics.RecordChunks(len(sequence))

	// Stage 2: feedback and grammar check both depend only on stage 1 output.
	var (
		feedback string
		issues   []models.GrammarIssue
	)

	g2, g2ctx := errgroup.WithContext(ctx)
	g2.Go(func() error {
		started := time.Now()
		var err error
		feedback, err = h.feedback.GenerateFeedback(g2ctx, form.Question, transcript.Transcript, avg, transcript.SpeechRateWPM)
		h.metrics.RecordAdapterCall("feedback", err, time.Since(started).Seconds())
		return err
	})
	g2.Go(func() error {
		started := time.Now()
		var err error
		issues, err = h.grammar.Check(g2ctx, transcript.Transcript)
		h.metrics.RecordAdapterCall("grammar", err, time.Since(started).Seconds())
		return err
	})
	if err := g2.Wait(); err != nil {
		return err
	}

	response := &models.AnswerResponse{
		Question:      form.Question,
		Prediction:    sequence,
		AvgPrediction: avg,
		Transcript:    transcript.Transcript,
		NumOfWords:    transcript.NumOfWords,
		SpeechRateWPM: transcript.SpeechRateWPM,
		Feedback:      feedback,
		Issues:        issues,
		Extra:         form.Extra,
		CreatedAt:     time.Now().UTC(),
	}

	if err := h.resultRepo.AppendResponse(ctx, form.InterviewID, form.Name, response); err != nil {
		return err
	}

	// Indexing is best effort; the answer is already persisted.
	if err := h.search.IndexAnswer(ctx, fileHeader.Filename, form.InterviewID, transcript.Transcript); err != nil {
		log.Printf("⚠️  Failed to index transcript for %s: %v\n", fileHeader.Filename, err)
	}

	return nil
}

// prepareWav materializes a playable WAV file from the upload, demuxing webm
// containers first. All temp files created are appended to tempPaths.
func (h *PredictHandler) prepareWav(ctx context.Context, fileHeader *multipart.FileHeader, tempPaths *[]string) (string, error) {
	if strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".webm") {
		webmPath, err := h.storage.SaveTemp(fileHeader, ".webm")
		if err != nil {
			return "", err
		}
		*tempPaths = append(*tempPaths, webmPath)

		wavPath, err := h.storage.DemuxToWav(ctx, webmPath)
		if err != nil {
			return "", err
		}
		*tempPaths = append(*tempPaths, wavPath)

		return wavPath, nil
	}

	wavPath, err := h.storage.SaveTemp(fileHeader, ".wav")
	if err != nil {
		return "", err
	}
	*tempPaths = append(*tempPaths, wavPath)

	return wavPath, nil
}
