package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIPort  string
	LogLevel string

	EmbeddingProvider string
	EmbeddingDim      int
	EmbedTimeout      time.Duration

	OllamaURL        string
	OllamaEmbedModel string

	OpenAIAPIKey     string
	OpenAIEmbedModel string

	VectorBackend    string
	VectorTimeout    time.Duration
	QdrantURL        string
	QdrantCollection string

	PostgresDSN string

	NATSURL     string
	NATSSubject string

	MaxChunkSize       int
	QueryCacheTTL      time.Duration
	DefaultMaxResults  int
	RecentQueriesLimit int

	APIRateLimitRPS   float64
	APIRateLimitBurst int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		EmbeddingProvider: mustEnv("EMBEDDING_PROVIDER", "stub"),
		EmbeddingDim:      mustEnvInt("EMBEDDING_DIM", 384),
		EmbedTimeout:      mustEnvDuration("EMBED_TIMEOUT", 30*time.Second),

		OllamaURL:        mustEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaEmbedModel: mustEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),

		OpenAIAPIKey:     mustEnv("OPENAI_API_KEY", ""),
		OpenAIEmbedModel: mustEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),

		VectorBackend:    mustEnv("VECTOR_BACKEND", "memory"),
		VectorTimeout:    mustEnvDuration("VECTOR_TIMEOUT", 30*time.Second),
		QdrantURL:        mustEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: mustEnv("QDRANT_COLLECTION", "knowledge_chunks"),

		PostgresDSN: mustEnv("POSTGRES_DSN", ""),

		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "knowledge.documents.indexed"),

		MaxChunkSize:       mustEnvInt("MAX_CHUNK_SIZE", 500),
		QueryCacheTTL:      mustEnvDuration("QUERY_CACHE_TTL", time.Hour),
		DefaultMaxResults:  mustEnvInt("DEFAULT_MAX_RESULTS", 5),
		RecentQueriesLimit: mustEnvInt("RECENT_QUERIES_LIMIT", 20),

		APIRateLimitRPS:   mustEnvFloat("API_RATE_LIMIT_RPS", 50),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 100),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
