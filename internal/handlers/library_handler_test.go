package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"speaksure/internal/models"
)

func newLibraryApp(repo *mockAudioRepo) *fiber.App {
	handler := NewLibraryHandler(repo)

	app := fiber.New()
	app.Get("/api/get_filenames", handler.HandleGetFilenames)
	app.Get("/api/get_audio", handler.HandleGetAudio)
	app.Get("/api/get_metadata", handler.HandleGetMetadata)
	app.Delete("/api/delete_audio", handler.HandleDeleteAudio)
	return app
}

func TestHandleGetFilenames(t *testing.T) {
	repo := &mockAudioRepo{
		files: []models.StoredFile{
			{Filename: "a.wav", Metadata: bson.M{"transcript": "hello"}},
			{Filename: "b.wav"},
		},
	}
	app := newLibraryApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/get_filenames", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body := readJSONBody(t, resp)
	if !strings.Contains(body, "a.wav") || !strings.Contains(body, "b.wav") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestHandleGetFilenames_Empty(t *testing.T) {
	app := newLibraryApp(&mockAudioRepo{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/get_filenames", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}
	if body := readJSONBody(t, resp); !strings.Contains(body, "No files found") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestHandleGetAudio(t *testing.T) {
	repo := &mockAudioRepo{blobs: map[string][]byte{"a.wav": []byte("wav bytes")}}
	app := newLibraryApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/get_audio?filename=a.wav", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	if ct := resp.Header.Get(fiber.HeaderContentType); ct != "audio/wav" {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := resp.Header.Get(fiber.HeaderContentDisposition); !strings.Contains(cd, `filename="a.wav"`) {
		t.Errorf("unexpected content disposition: %s", cd)
	}

	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(data) != "wav bytes" {
		t.Errorf("unexpected body: %q", data)
	}
}

func TestHandleGetAudio_MissingFilename(t *testing.T) {
	app := newLibraryApp(&mockAudioRepo{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/get_audio", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	if body := readJSONBody(t, resp); !strings.Contains(body, "Filename is required") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestHandleGetAudio_NotFound(t *testing.T) {
	app := newLibraryApp(&mockAudioRepo{blobs: map[string][]byte{}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/get_audio?filename=missing.wav", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}
}

func TestHandleGetMetadata(t *testing.T) {
	repo := &mockAudioRepo{
		metadata: map[string]bson.M{
			"a.wav": {"transcript": "hello world", "avg_prediction": 3.5},
		},
	}
	app := newLibraryApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/get_metadata?filename=a.wav", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if body := readJSONBody(t, resp); !strings.Contains(body, "hello world") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestHandleGetMetadata_NotFound(t *testing.T) {
	app := newLibraryApp(&mockAudioRepo{metadata: map[string]bson.M{}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/get_metadata?filename=missing.wav", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}
}

func TestHandleDeleteAudio(t *testing.T) {
	repo := &mockAudioRepo{blobs: map[string][]byte{"a.wav": []byte("x")}}
	app := newLibraryApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/delete_audio?filename=a.wav", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if body := readJSONBody(t, resp); !strings.Contains(body, "File 'a.wav' deleted successfully") {
		t.Errorf("unexpected body: %s", body)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "a.wav" {
		t.Errorf("unexpected delete calls: %v", repo.deleted)
	}
}

func TestHandleDeleteAudio_NotFound(t *testing.T) {
	app := newLibraryApp(&mockAudioRepo{blobs: map[string][]byte{}})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/delete_audio?filename=missing.wav", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}
	if body := readJSONBody(t, resp); !strings.Contains(body, "File not found or failed to delete") {
		t.Errorf("unexpected body: %s", body)
	}
}
