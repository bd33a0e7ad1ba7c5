package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Mongo       MongoConfig
	AssemblyAI  AssemblyAIConfig
	Gemini      GeminiConfig
	ModelServer ModelServerConfig
	Qdrant      QdrantConfig
	Grammar     GrammarConfig
	Storage     StorageConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type MongoConfig struct {
	URI      string
	Database string
	Bucket   string
}

type AssemblyAIConfig struct {
	APIKey       string
	BaseURL      string
	PollInterval time.Duration
}

type GeminiConfig struct {
	APIKey           string
	RetryMaxAttempts int
}

type ModelServerConfig struct {
	URL          string
	SampleRate   int
	ChunkSeconds int
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GrammarConfig struct {
	URL      string
	Language string
}

type StorageConfig struct {
	TempDir     string
	MaxFileSize int64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "Speaksure2"),
			Bucket:   getEnv("GRIDFS_BUCKET", "result_bucket"),
		},
		AssemblyAI: AssemblyAIConfig{
			APIKey:       getEnv("ASSEMBLYAI_API_KEY", ""),
			BaseURL:      getEnv("ASSEMBLYAI_BASE_URL", "https://api.assemblyai.com"),
			PollInterval: getEnvAsDuration("ASSEMBLYAI_POLL_INTERVAL", "3s"),
		},
		Gemini: GeminiConfig{
			APIKey:           getEnv("GEMINI_API_KEY", ""),
			RetryMaxAttempts: getEnvAsInt("GEMINI_RETRY_MAX_ATTEMPTS", 3),
		},
		ModelServer: ModelServerConfig{
			URL:          getEnv("MODEL_SERVER_URL", "http://localhost:8501"),
			SampleRate:   getEnvAsInt("SAMPLE_RATE", 16000),
			ChunkSeconds: getEnvAsInt("CHUNK_SECONDS", 10),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "answer_transcripts"),
		},
		Grammar: GrammarConfig{
			URL:      getEnv("LANGUAGETOOL_URL", "https://api.languagetool.org"),
			Language: getEnv("LANGUAGETOOL_LANGUAGE", "en-US"),
		},
		Storage: StorageConfig{
			TempDir:     getEnv("TEMP_DIR", os.TempDir()),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 52428800),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
