package services

import (
	"context"
	"fmt"
)

// FeedbackService produces hiring feedback for one answer from the transcript
// and the derived speech metrics. The LLM response is returned verbatim.
type FeedbackService interface {
	GenerateFeedback(ctx context.Context, question, transcript string, avgPrediction, speechRateWPM float64) (string, error)
}

type feedbackService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewFeedbackService(gemini GeminiService, maxRetries int) FeedbackService {
	return &feedbackService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// GenerateFeedback implements FeedbackService.
func (f *feedbackService) GenerateFeedback(ctx context.Context, question, transcript string, avgPrediction, speechRateWPM float64) (string, error) {
	prompt := f.promptBuilder.BuildFeedbackPrompt(question, transcript, avgPrediction, speechRateWPM)

	feedback, err := f.gemini.GenerateTextWithRetry(ctx, prompt, f.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to generate feedback: %w", err)
	}

	return feedback, nil
}
