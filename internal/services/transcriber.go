package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TranscriptResult carries the transcript text and the speech-rate metrics
// derived from it.
type TranscriptResult struct {
	Transcript    string
	NumOfWords    int
	Duration      float64
	SpeechRateWPM float64
}

// TranscriberService delegates speech-to-text to AssemblyAI. The duration is
// computed locally from the decoded waveform, not taken from the service.
type TranscriberService interface {
	Transcribe(ctx context.Context, audio []byte, duration float64) (*TranscriptResult, error)
}

type transcriberService struct {
	apiKey       string
	baseURL      string
	pollInterval time.Duration
	httpClient   *http.Client
}

func NewTranscriberService(apiKey, baseURL string, pollInterval time.Duration) TranscriberService {
	return &transcriberService{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		pollInterval: pollInterval,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Transcribe implements TranscriberService: upload the audio, create a
// transcript job, poll until it completes or errors.
func (t *transcriberService) Transcribe(ctx context.Context, audio []byte, duration float64) (*TranscriptResult, error) {
	uploadURL, err := t.uploadAudio(ctx, audio)
	if err != nil {
		return nil, err
	}

	transcriptID, err := t.createTranscript(ctx, uploadURL)
	if err != nil {
		return nil, err
	}

	text, err := t.pollTranscript(ctx, transcriptID)
	if err != nil {
		return nil, err
	}

	return &TranscriptResult{
		Transcript:    text,
		NumOfWords:    countWords(text),
		Duration:      duration,
		SpeechRateWPM: wordsPerMinute(countWords(text), duration),
	}, nil
}

func (t *transcriberService) uploadAudio(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v2/upload", bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", t.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var result uploadResponse
	if err := t.do(req, &result); err != nil {
		return "", fmt.Errorf("audio upload failed: %w", err)
	}

	if result.UploadURL == "" {
		return "", fmt.Errorf("transcription service returned empty upload URL")
	}

	return result.UploadURL, nil
}

func (t *transcriberService) createTranscript(ctx context.Context, audioURL string) (string, error) {
	body, err := json.Marshal(map[string]string{"audio_url": audioURL})
	if err != nil {
		return "", fmt.Errorf("failed to encode transcript request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create transcript request: %w", err)
	}
	req.Header.Set("Authorization", t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var result transcriptResponse
	if err := t.do(req, &result); err != nil {
		return "", fmt.Errorf("transcript creation failed: %w", err)
	}

	if result.ID == "" {
		return "", fmt.Errorf("transcription service returned no transcript id")
	}

	return result.ID, nil
}

func (t *transcriberService) pollTranscript(ctx context.Context, transcriptID string) (string, error) {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/v2/transcript/"+transcriptID, nil)
		if err != nil {
			return "", fmt.Errorf("failed to create poll request: %w", err)
		}
		req.Header.Set("Authorization", t.apiKey)

		var result transcriptResponse
		if err := t.do(req, &result); err != nil {
			return "", fmt.Errorf("transcript poll failed: %w", err)
		}

		switch result.Status {
		case "completed":
			return result.Text, nil
		case "error":
			return "", fmt.Errorf("transcription failed: %s", result.Error)
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("transcription cancelled: %w", ctx.Err())
		case <-time.After(t.pollInterval):
		}
	}
}

func (t *transcriberService) do(req *http.Request, out interface{}) error {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

// wordsPerMinute is (words / duration seconds) * 60 rounded to two decimals,
// with a zero-duration guard.
func wordsPerMinute(words int, duration float64) float64 {
	if duration <= 0 {
		return 0
	}

	return round2(float64(words) / duration * 60)
}
