package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"speaksure/internal/metrics"
	"speaksure/internal/models"
	"speaksure/internal/repositories"
	"speaksure/internal/services"
)

// Prometheus collectors register globally, so every test shares one instance.
var testMetrics = metrics.NewMetrics()

// newMultipartRequest builds a multipart POST with an "audio" file part and
// optional extra form fields.
func newMultipartRequest(t *testing.T, target, filename string, fileContent []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if filename != "" {
		part, err := writer.CreateFormFile("audio", filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write form field: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, target, &body)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}

func readJSONBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	resp.Body.Close()

	return string(body)
}

type mockStorage struct {
	dir      string
	saved    []string
	removed  []string
	demuxErr error
}

func newMockStorage(t *testing.T) *mockStorage {
	return &mockStorage{dir: t.TempDir()}
}

func (m *mockStorage) SaveTemp(file *multipart.FileHeader, ext string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(m.dir, fmt.Sprintf("answer_%s%s", uuid.New().String(), ext))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	m.saved = append(m.saved, path)
	return path, nil
}

func (m *mockStorage) DemuxToWav(ctx context.Context, inputPath string) (string, error) {
	if m.demuxErr != nil {
		return "", m.demuxErr
	}

	path := filepath.Join(m.dir, fmt.Sprintf("answer_%s.wav", uuid.New().String()))
	if err := os.WriteFile(path, []byte("demuxed"), 0o644); err != nil {
		return "", err
	}

	m.saved = append(m.saved, path)
	return path, nil
}

func (m *mockStorage) Remove(path string) {
	m.removed = append(m.removed, path)
	os.Remove(path)
}

func (m *mockStorage) EnsureTempDir() error { return nil }

type mockDecoder struct {
	wf  *services.Waveform
	err error
}

func (m *mockDecoder) Decode(r io.ReadSeeker) (*services.Waveform, error) {
	return m.wf, m.err
}

type mockPredictor struct {
	sequence []int
	avg      float64
	err      error
}

func (m *mockPredictor) Predict(ctx context.Context, wf *services.Waveform) ([]int, float64, error) {
	return m.sequence, m.avg, m.err
}

type mockTranscriber struct {
	result *services.TranscriptResult
	err    error
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audio []byte, duration float64) (*services.TranscriptResult, error) {
	return m.result, m.err
}

type mockGrammar struct {
	issues []models.GrammarIssue
	err    error
}

func (m *mockGrammar) Check(ctx context.Context, text string) ([]models.GrammarIssue, error) {
	return m.issues, m.err
}

type mockFeedback struct {
	feedback string
	err      error
}

func (m *mockFeedback) GenerateFeedback(ctx context.Context, question, transcript string, avgPrediction, speechRateWPM float64) (string, error) {
	return m.feedback, m.err
}

type mockSearch struct {
	indexed []string
	matches []models.TranscriptMatch
	err     error
}

func (m *mockSearch) IndexAnswer(ctx context.Context, filename, interviewID, transcript string) error {
	m.indexed = append(m.indexed, filename)
	return m.err
}

func (m *mockSearch) Search(ctx context.Context, query string, limit int) ([]models.TranscriptMatch, error) {
	return m.matches, m.err
}

type appendedResponse struct {
	interviewID string
	name        string
	resp        *models.AnswerResponse
}

type mockResultRepo struct {
	appended []appendedResponse
	results  []models.InterviewResult
	err      error
}

func (m *mockResultRepo) AppendResponse(ctx context.Context, interviewID, name string, resp *models.AnswerResponse) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, appendedResponse{interviewID, name, resp})
	return nil
}

func (m *mockResultRepo) FindByInterviewID(ctx context.Context, interviewID string) (*models.InterviewResult, error) {
	for i := range m.results {
		if m.results[i].InterviewID == interviewID {
			return &m.results[i], nil
		}
	}
	return nil, repositories.ErrResultNotFound
}

func (m *mockResultRepo) List(ctx context.Context) ([]models.InterviewResult, error) {
	return m.results, m.err
}

type storedBlob struct {
	filename    string
	contentType string
	data        []byte
	metadata    bson.M
}

type mockAudioRepo struct {
	stored   []storedBlob
	files    []models.StoredFile
	blobs    map[string][]byte
	metadata map[string]bson.M
	deleted  []string
	err      error
}

func (m *mockAudioRepo) Store(ctx context.Context, filename, contentType string, data []byte, metadata bson.M) (primitive.ObjectID, error) {
	if m.err != nil {
		return primitive.NilObjectID, m.err
	}
	m.stored = append(m.stored, storedBlob{filename, contentType, data, metadata})
	return primitive.NewObjectID(), nil
}

func (m *mockAudioRepo) ListFiles(ctx context.Context) ([]models.StoredFile, error) {
	return m.files, m.err
}

func (m *mockAudioRepo) GetByName(ctx context.Context, filename string) ([]byte, *models.StoredFile, error) {
	data, ok := m.blobs[filename]
	if !ok {
		return nil, nil, repositories.ErrFileNotFound
	}
	return data, &models.StoredFile{Filename: filename}, nil
}

func (m *mockAudioRepo) GetMetadataByName(ctx context.Context, filename string) (bson.M, error) {
	meta, ok := m.metadata[filename]
	if !ok {
		return nil, repositories.ErrFileNotFound
	}
	return meta, nil
}

func (m *mockAudioRepo) DeleteByName(ctx context.Context, filename string) error {
	if _, ok := m.blobs[filename]; !ok {
		return repositories.ErrFileNotFound
	}
	m.deleted = append(m.deleted, filename)
	delete(m.blobs, filename)
	return nil
}
