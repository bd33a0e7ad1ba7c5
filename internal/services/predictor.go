package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// PredictorService classifies a waveform into per-chunk confidence classes
// (1..5) using the pretrained model server, and reports their rounded mean.
type PredictorService interface {
	Predict(ctx context.Context, wf *Waveform) ([]int, float64, error)
}

type predictorService struct {
	baseURL      string
	chunkSeconds int
	httpClient   *http.Client
}

func NewPredictorService(baseURL string, chunkSeconds int) PredictorService {
	return &predictorService{
		baseURL:      baseURL,
		chunkSeconds: chunkSeconds,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

type classifyRequest struct {
	SampleRate int    `json:"sample_rate"`
	PCM16      []byte `json:"pcm16"`
}

type classifyResponse struct {
	Class int    `json:"class"`
	Error string `json:"error,omitempty"`
}

// Predict implements PredictorService. Chunks are classified in order; the
// first upstream failure aborts the whole prediction.
func (p *predictorService) Predict(ctx context.Context, wf *Waveform) ([]int, float64, error) {
	chunkSize := p.chunkSeconds * wf.SampleRate
	chunks := chunkSamples(wf.Samples, chunkSize)

	var sequence []int
	for i, chunk := range chunks {
		class, err := p.classifyChunk(ctx, chunk, wf.SampleRate)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to classify chunk %d: %w", i, err)
		}
		sequence = append(sequence, class)
	}

	return sequence, averageClass(sequence), nil
}

func (p *predictorService) classifyChunk(ctx context.Context, chunk []int, sampleRate int) (int, error) {
	body, err := json.Marshal(classifyRequest{
		SampleRate: sampleRate,
		PCM16:      pcm16Bytes(chunk),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to encode chunk: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/classify", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("model server request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read model server response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("model server returned status %d: %s", resp.StatusCode, respBody)
	}

	var result classifyResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return 0, fmt.Errorf("failed to parse model server response: %w", err)
	}

	if result.Class < 1 || result.Class > 5 {
		return 0, fmt.Errorf("model server returned out-of-range class %d", result.Class)
	}

	return result.Class, nil
}

// averageClass is the arithmetic mean of the class sequence rounded to two
// decimal places, or 0 for an empty sequence.
func averageClass(sequence []int) float64 {
	if len(sequence) == 0 {
		return 0
	}

	sum := 0
	for _, class := range sequence {
		sum += class
	}

	return round2(float64(sum) / float64(len(sequence)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pcm16Bytes converts decoded samples to little-endian 16-bit PCM, clamping
// out-of-range values.
func pcm16Bytes(samples []int) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > math.MaxInt16 {
			s = math.MaxInt16
		} else if s < math.MinInt16 {
			s = math.MinInt16
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(s)))
	}

	return out
}
