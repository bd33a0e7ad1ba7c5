package services

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

// Waveform is a decoded, mono PCM signal.
type Waveform struct {
	Samples    []int
	SampleRate int
}

// Duration returns the waveform length in seconds.
func (w *Waveform) Duration() float64 {
	if w.SampleRate == 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

type AudioDecoder interface {
	Decode(r io.ReadSeeker) (*Waveform, error)
}

type wavDecoder struct{}

func NewWavDecoder() AudioDecoder {
	return &wavDecoder{}
}

// Decode implements AudioDecoder. Multi-channel audio is downmixed to mono by
// averaging channels, matching what the model server expects.
func (d *wavDecoder) Decode(r io.ReadSeeker) (*Waveform, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode PCM data: %w", err)
	}

	if buf.Format == nil || buf.Format.SampleRate == 0 {
		return nil, fmt.Errorf("missing WAV format information")
	}

	channels := buf.Format.NumChannels
	if channels <= 1 {
		return &Waveform{
			Samples:    buf.Data,
			SampleRate: buf.Format.SampleRate,
		}, nil
	}

	frames := len(buf.Data) / channels
	mono := make([]int, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += buf.Data[i*channels+c]
		}
		mono[i] = sum / channels
	}

	return &Waveform{
		Samples:    mono,
		SampleRate: buf.Format.SampleRate,
	}, nil
}

// chunkSamples splits samples into fixed-length chunks with a shorter final
// chunk. Empty chunks are never produced.
func chunkSamples(samples []int, chunkSize int) [][]int {
	if chunkSize <= 0 || len(samples) == 0 {
		return nil
	}

	var chunks [][]int
	for start := 0; start < len(samples); start += chunkSize {
		end := start + chunkSize
		if end > len(samples) {
			end = len(samples)
		}
		chunks = append(chunks, samples[start:end])
	}

	return chunks
}
