package repositories

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"speaksure/internal/models"
)

var ErrFileNotFound = errors.New("file not found")

type AudioRepository interface {
	Store(ctx context.Context, filename, contentType string, data []byte, metadata bson.M) (primitive.ObjectID, error)
	ListFiles(ctx context.Context) ([]models.StoredFile, error)
	GetByName(ctx context.Context, filename string) ([]byte, *models.StoredFile, error)
	GetMetadataByName(ctx context.Context, filename string) (bson.M, error)
	DeleteByName(ctx context.Context, filename string) error
}

type audioRepository struct {
	bucket    *gridfs.Bucket
	filesColl *mongo.Collection
}

func NewAudioRepository(db *mongo.Database, bucketName string) (AudioRepository, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("failed to create GridFS bucket: %w", err)
	}

	return &audioRepository{
		bucket:    bucket,
		filesColl: db.Collection(bucketName + ".files"),
	}, nil
}

// Store implements AudioRepository. The content type rides along inside the
// metadata document because the modern GridFS spec has no top-level field for it.
func (r *audioRepository) Store(ctx context.Context, filename, contentType string, data []byte, metadata bson.M) (primitive.ObjectID, error) {
	meta := bson.M{"content_type": contentType}
	for k, v := range metadata {
		meta[k] = v
	}

	id, err := r.bucket.UploadFromStream(
		filename,
		bytes.NewReader(data),
		options.GridFSUpload().SetMetadata(meta),
	)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to store audio blob: %w", err)
	}

	return id, nil
}

// ListFiles implements AudioRepository.
func (r *audioRepository) ListFiles(ctx context.Context) ([]models.StoredFile, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 0, "filename": 1, "metadata": 1})
	cursor, err := r.filesColl.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer cursor.Close(ctx)

	var files []models.StoredFile
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode file listing: %w", err)
	}

	return files, nil
}

// GetByName implements AudioRepository.
func (r *audioRepository) GetByName(ctx context.Context, filename string) ([]byte, *models.StoredFile, error) {
	doc, err := r.findFileDoc(ctx, filename)
	if err != nil {
		return nil, nil, err
	}

	stream, err := r.bucket.OpenDownloadStreamByName(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open download stream: %w", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read audio blob: %w", err)
	}

	return data, doc, nil
}

// GetMetadataByName implements AudioRepository.
func (r *audioRepository) GetMetadataByName(ctx context.Context, filename string) (bson.M, error) {
	doc, err := r.findFileDoc(ctx, filename)
	if err != nil {
		return nil, err
	}

	return doc.Metadata, nil
}

// DeleteByName implements AudioRepository.
func (r *audioRepository) DeleteByName(ctx context.Context, filename string) error {
	var raw struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err := r.filesColl.FindOne(ctx, bson.M{"filename": filename}).Decode(&raw)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to find file: %w", err)
	}

	if err := r.bucket.Delete(raw.ID); err != nil {
		return fmt.Errorf("failed to delete audio blob: %w", err)
	}

	return nil
}

func (r *audioRepository) findFileDoc(ctx context.Context, filename string) (*models.StoredFile, error) {
	var doc models.StoredFile
	err := r.filesColl.FindOne(ctx, bson.M{"filename": filename}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}

	return &doc, nil
}
