package services

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// makeWavBytes builds a minimal PCM16 WAV file in memory.
func makeWavBytes(t *testing.T, samples []int16, channels, sampleRate int) []byte {
	t.Helper()

	dataLen := len(samples) * 2
	var buf bytes.Buffer

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	for _, s := range samples {
		binary.Write(&buf, binary.LittleEndian, s)
	}

	return buf.Bytes()
}

func TestWavDecoder_Decode_Mono(t *testing.T) {
	samples := []int16{100, -200, 300, -400}
	data := makeWavBytes(t, samples, 1, 16000)

	wf, err := NewWavDecoder().Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wf.SampleRate != 16000 {
		t.Errorf("expected sample rate 16000, got %d", wf.SampleRate)
	}
	if len(wf.Samples) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(wf.Samples))
	}
	for i, s := range samples {
		if wf.Samples[i] != int(s) {
			t.Errorf("sample %d: expected %d, got %d", i, s, wf.Samples[i])
		}
	}
}

func TestWavDecoder_Decode_StereoDownmix(t *testing.T) {
	// Interleaved stereo frames (L, R).
	samples := []int16{100, 200, -100, -300}
	data := makeWavBytes(t, samples, 2, 44100)

	wf, err := NewWavDecoder().Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wf.SampleRate != 44100 {
		t.Errorf("expected sample rate 44100, got %d", wf.SampleRate)
	}
	expected := []int{150, -200}
	if len(wf.Samples) != len(expected) {
		t.Fatalf("expected %d mono samples, got %d", len(expected), len(wf.Samples))
	}
	for i, want := range expected {
		if wf.Samples[i] != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, wf.Samples[i])
		}
	}
}

func TestWavDecoder_Decode_InvalidFile(t *testing.T) {
	if _, err := NewWavDecoder().Decode(bytes.NewReader([]byte("not a wav file"))); err == nil {
		t.Error("expected error for invalid WAV data")
	}
}

func TestWaveformDuration(t *testing.T) {
	tests := []struct {
		name     string
		wf       Waveform
		expected float64
	}{
		{"one second", Waveform{Samples: make([]int, 16000), SampleRate: 16000}, 1.0},
		{"half second", Waveform{Samples: make([]int, 8000), SampleRate: 16000}, 0.5},
		{"zero rate", Waveform{Samples: make([]int, 100), SampleRate: 0}, 0},
		{"empty", Waveform{SampleRate: 16000}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.wf.Duration(); got != tt.expected {
				t.Errorf("expected duration %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestChunkSamples(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		chunkSize int
		lens      []int
	}{
		{"exact multiple", 30, 10, []int{10, 10, 10}},
		{"shorter tail", 25, 10, []int{10, 10, 5}},
		{"single short", 3, 10, []int{3}},
		{"empty input", 0, 10, nil},
		{"zero chunk size", 10, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := make([]int, tt.total)
			for i := range samples {
				samples[i] = i
			}

			chunks := chunkSamples(samples, tt.chunkSize)
			if len(chunks) != len(tt.lens) {
				t.Fatalf("expected %d chunks, got %d", len(tt.lens), len(chunks))
			}
			for i, want := range tt.lens {
				if len(chunks[i]) != want {
					t.Errorf("chunk %d: expected len %d, got %d", i, want, len(chunks[i]))
				}
				if len(chunks[i]) == 0 {
					t.Errorf("chunk %d is empty", i)
				}
			}
		})
	}
}

func TestChunkSamples_PreservesOrder(t *testing.T) {
	samples := []int{1, 2, 3, 4, 5, 6, 7}
	chunks := chunkSamples(samples, 3)

	var flat []int
	for _, c := range chunks {
		flat = append(flat, c...)
	}

	if len(flat) != len(samples) {
		t.Fatalf("expected %d samples after flattening, got %d", len(samples), len(flat))
	}
	for i := range samples {
		if flat[i] != samples[i] {
			t.Errorf("index %d: expected %d, got %d", i, samples[i], flat[i])
		}
	}
}
