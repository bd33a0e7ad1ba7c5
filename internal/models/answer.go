package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// GrammarIssue is one grammar finding in a transcript, with the offending
// text span and suggested replacements.
type GrammarIssue struct {
	RuleID      string   `bson:"rule_id" json:"ruleId"`
	Message     string   `bson:"message" json:"message"`
	Mistake     string   `bson:"mistake" json:"mistake"`
	Suggestions []string `bson:"suggestions" json:"suggestions"`
	Position    [2]int   `bson:"position" json:"position"`
}

// AnswerResponse is the derived metadata for a single interview answer. It is
// embedded in the responses array of an InterviewResult document.
type AnswerResponse struct {
	Question      string            `bson:"question" json:"question"`
	Prediction    []int             `bson:"prediction" json:"prediction"`
	AvgPrediction float64           `bson:"avg_prediction" json:"avg_prediction"`
	Transcript    string            `bson:"transcript" json:"transcript"`
	NumOfWords    int               `bson:"numofwords" json:"numofwords"`
	SpeechRateWPM float64           `bson:"speech_rate_wpm" json:"speech_rate_wpm"`
	Feedback      string            `bson:"feedback" json:"feedback"`
	Issues        []GrammarIssue    `bson:"issues" json:"issues"`
	Extra         map[string]string `bson:"extra,omitempty" json:"extra,omitempty"`
	CreatedAt     time.Time         `bson:"created_at" json:"created_at"`
}

// StoredFile is the filename + metadata projection of a GridFS file document.
type StoredFile struct {
	Filename string `bson:"filename" json:"filename"`
	Metadata bson.M `bson:"metadata" json:"metadata"`
}
