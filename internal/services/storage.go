package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// StorageService owns request-scoped temp files: saving uploads, demuxing
// webm containers to standalone WAV, and best-effort cleanup.
type StorageService interface {
	SaveTemp(file *multipart.FileHeader, ext string) (string, error)
	DemuxToWav(ctx context.Context, inputPath string) (string, error)
	Remove(path string)
	EnsureTempDir() error
}

type storageService struct {
	tempDir    string
	sampleRate int
}

func NewStorageService(tempDir string, sampleRate int) StorageService {
	return &storageService{
		tempDir:    tempDir,
		sampleRate: sampleRate,
	}
}

func (s *storageService) EnsureTempDir() error {
	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	return nil
}

// SaveTemp writes an uploaded file to a uniquely named temp file and returns
// its path. The caller is responsible for calling Remove.
func (s *storageService) SaveTemp(file *multipart.FileHeader, ext string) (string, error) {
	path := filepath.Join(s.tempDir, fmt.Sprintf("answer_%s%s", uuid.New().String(), ext))

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save uploaded file: %w", err)
	}

	return path, nil
}

// DemuxToWav extracts the audio track of a webm container into a standalone
// 16-bit PCM WAV file and returns its path. The caller must Remove it.
func (s *storageService) DemuxToWav(ctx context.Context, inputPath string) (string, error) {
	outPath := filepath.Join(s.tempDir, fmt.Sprintf("answer_%s.wav", uuid.New().String()))

	err := ffmpeg.Input(inputPath).
		Output(outPath, ffmpeg.KwArgs{
			"vn":     "",
			"acodec": "pcm_s16le",
			"ar":     s.sampleRate,
			"ac":     1,
		}).
		OverWriteOutput().
		Silent(true).
		Run()
	if err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("failed to demux webm audio: %w", err)
	}

	return outPath, nil
}

// Remove deletes a temp file, logging rather than failing when it is already gone.
func (s *storageService) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Failed to remove temp file %s: %v\n", path, err)
	}
}
