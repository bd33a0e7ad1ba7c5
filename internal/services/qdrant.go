package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"speaksure/internal/models"
)

// TranscriptIndex stores answer-transcript embeddings so past answers can be
// searched by similarity.
type TranscriptIndex interface {
	InitCollection() error
	UpsertTranscript(ctx context.Context, filename, interviewID, transcript string, embedding []float32) error
	SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]models.TranscriptMatch, error)
}

type transcriptIndex struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewTranscriptIndex(urlStr, apiKey, collectionName string) (TranscriptIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &transcriptIndex{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements TranscriptIndex.
func (t *transcriptIndex) InitCollection() error {
	ctx := context.Background()

	exists, err := t.client.CollectionExists(ctx, t.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		return nil
	}

	err = t.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: t.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     t.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", t.collectionName)
	return nil
}

// UpsertTranscript implements TranscriptIndex.
func (t *transcriptIndex) UpsertTranscript(ctx context.Context, filename, interviewID, transcript string, embedding []float32) error {
	pointID := uuid.New()

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(pointID.ID())),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"filename":     filename,
			"interview_id": interviewID,
			"transcript":   transcript,
		}),
	}

	_, err := t.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: t.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert transcript point: %w", err)
	}

	return nil
}

// SearchSimilar implements TranscriptIndex.
func (t *transcriptIndex) SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]models.TranscriptMatch, error) {
	searchResult, err := t.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: t.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search transcripts: %w", err)
	}

	var matches []models.TranscriptMatch
	for _, point := range searchResult {
		match := models.TranscriptMatch{Score: point.Score}

		if v, ok := point.Payload["filename"]; ok {
			if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				match.Filename = s.StringValue
			}
		}
		if v, ok := point.Payload["interview_id"]; ok {
			if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				match.InterviewID = s.StringValue
			}
		}
		if v, ok := point.Payload["transcript"]; ok {
			if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				match.Transcript = s.StringValue
			}
		}

		matches = append(matches, match)
	}

	return matches, nil
}
