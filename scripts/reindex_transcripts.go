package main

import (
	"context"
	"fmt"
	"log"

	"speaksure/internal/config"
	"speaksure/internal/repositories"
	"speaksure/internal/services"
)

// Rebuilds the Qdrant transcript index from the interview results already
// stored in MongoDB. Useful after changing the embedding model or wiping the
// vector store.
func main() {
	log.Println("🚀 Starting transcript reindex...")

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	transcriptIndex, err := services.NewTranscriptIndex(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := transcriptIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	searchService := services.NewAnswerSearchService(geminiService, transcriptIndex)
	resultRepo := repositories.NewResultRepository(db)

	ctx := context.Background()

	results, err := resultRepo.List(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to load interview results: %v", err)
	}

	indexed := 0
	for _, result := range results {
		for i, response := range result.Responses {
			if response.Transcript == "" {
				continue
			}

			// Answers indexed from results have no stored filename; use a
			// deterministic synthetic one so reindex runs are stable.
			filename := fmt.Sprintf("%s_answer_%d", result.InterviewID, i)

			if err := searchService.IndexAnswer(ctx, filename, result.InterviewID, response.Transcript); err != nil {
				log.Printf("⚠️  Failed to index %s: %v\n", filename, err)
				continue
			}
			indexed++
		}
	}

	log.Printf("✅ Reindex complete: %d transcripts indexed\n", indexed)
}
