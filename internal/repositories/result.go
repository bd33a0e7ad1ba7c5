package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"speaksure/internal/models"
)

var ErrResultNotFound = errors.New("interview result not found")

type ResultRepository interface {
	AppendResponse(ctx context.Context, interviewID, name string, resp *models.AnswerResponse) error
	FindByInterviewID(ctx context.Context, interviewID string) (*models.InterviewResult, error)
	List(ctx context.Context) ([]models.InterviewResult, error)
}

type resultRepository struct {
	coll *mongo.Collection
}

func NewResultRepository(db *mongo.Database) ResultRepository {
	return &resultRepository{coll: db.Collection("results")}
}

// AppendResponse implements ResultRepository. The append is a single atomic
// update: concurrent answers for the same interview each push their own entry,
// and the first one to arrive creates the document.
func (r *resultRepository) AppendResponse(ctx context.Context, interviewID, name string, resp *models.AnswerResponse) error {
	filter := bson.M{"interview_id": interviewID}
	update := bson.M{
		"$push":        bson.M{"responses": resp},
		"$setOnInsert": bson.M{"name": name},
	}

	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to append interview response: %w", err)
	}

	return nil
}

// FindByInterviewID implements ResultRepository.
func (r *resultRepository) FindByInterviewID(ctx context.Context, interviewID string) (*models.InterviewResult, error) {
	var result models.InterviewResult
	err := r.coll.FindOne(ctx, bson.M{"interview_id": interviewID}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to find interview result: %w", err)
	}

	return &result, nil
}

// List implements ResultRepository.
func (r *resultRepository) List(ctx context.Context) ([]models.InterviewResult, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 0})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview results: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.InterviewResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode interview results: %w", err)
	}

	return results, nil
}
