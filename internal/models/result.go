package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InterviewResult aggregates all answers recorded for one interview. There is
// at most one document per interview_id; responses grows by one entry per
// analyzed answer.
type InterviewResult struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	InterviewID string             `bson:"interview_id" json:"interview_id"`
	Name        string             `bson:"name" json:"name"`
	Responses   []AnswerResponse   `bson:"responses" json:"responses"`
}

type UploadResponse struct {
	Message       string  `json:"message"`
	FileID        string  `json:"file_id"`
	AvgPrediction float64 `json:"avg_prediction"`
}

type TranscriptMatch struct {
	Filename    string  `json:"filename"`
	InterviewID string  `json:"interview_id"`
	Transcript  string  `json:"transcript"`
	Score       float32 `json:"score"`
}
