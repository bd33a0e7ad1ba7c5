package services

import (
	"context"
	"fmt"

	"speaksure/internal/models"
)

// AnswerSearchService combines the embedding model and the transcript index:
// new answers are embedded and upserted, queries are embedded and matched.
type AnswerSearchService interface {
	IndexAnswer(ctx context.Context, filename, interviewID, transcript string) error
	Search(ctx context.Context, query string, limit int) ([]models.TranscriptMatch, error)
}

type answerSearchService struct {
	gemini GeminiService
	index  TranscriptIndex
}

func NewAnswerSearchService(gemini GeminiService, index TranscriptIndex) AnswerSearchService {
	return &answerSearchService{
		gemini: gemini,
		index:  index,
	}
}

// IndexAnswer implements AnswerSearchService.
func (s *answerSearchService) IndexAnswer(ctx context.Context, filename, interviewID, transcript string) error {
	if transcript == "" {
		return nil
	}

	embedding, err := s.gemini.GenerateEmbedding(ctx, transcript)
	if err != nil {
		return fmt.Errorf("failed to embed transcript: %w", err)
	}

	if err := s.index.UpsertTranscript(ctx, filename, interviewID, transcript, embedding); err != nil {
		return fmt.Errorf("failed to index transcript: %w", err)
	}

	return nil
}

// Search implements AnswerSearchService.
func (s *answerSearchService) Search(ctx context.Context, query string, limit int) ([]models.TranscriptMatch, error) {
	embedding, err := s.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := s.index.SearchSimilar(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search transcripts: %w", err)
	}

	return matches, nil
}
