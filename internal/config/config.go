package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	AppVersion  string
	CORSOrigins string

	Provider            string // gemini | openai | mock
	GeminiAPIKey        string
	GCPProject          string // Vertex AI backend when set and no API key
	GCPLocation         string
	GeminiModel         string
	GeminiFallbackModel string
	EmbedModel          string
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	OpenAIModel         string
	ProviderTimeoutSecs int

	RedisAddr      string
	UserTokenLimit int

	QdrantHost       string
	QdrantPort       int
	QdrantCollection string
	CacheThreshold   float32

	MaxUploadMB int
}

// Load reads the optional env files and then the process environment. Values
// already set in the environment win.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	loaded := 0
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			loaded++
		}
	}
	if loaded == 0 {
		log.Println("Warning: .env file not found, using system environment variables")
	}
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		Port:        getenv("PORT", "5000"),
		Env:         getenv("ENV", "production"),
		AppVersion:  getenv("APP_VERSION", "1.0.0"),
		CORSOrigins: getenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173"),

		Provider:            strings.ToLower(getenv("PROVIDER", "gemini")),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GCPProject:          os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GCPLocation:         getenv("GOOGLE_CLOUD_LOCATION", "us-central1"),
		GeminiModel:         getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiFallbackModel: getenv("GEMINI_FALLBACK_MODEL", "gemini-1.5-flash"),
		EmbedModel:          getenv("EMBED_MODEL", "text-embedding-004"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:       os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:         getenv("OPENAI_MODEL", "gpt-4o-mini"),
		ProviderTimeoutSecs: getenvInt("PROVIDER_TIMEOUT_SECONDS", 25),

		RedisAddr:      os.Getenv("REDIS_ADDR"),
		UserTokenLimit: getenvInt("USER_TOKEN_LIMIT", 0),

		QdrantHost:       os.Getenv("QDRANT_HOST"),
		QdrantPort:       getenvInt("QDRANT_PORT", 6334),
		QdrantCollection: getenv("QDRANT_COLLECTION", "student-chat"),
		CacheThreshold:   getenvFloat32("CACHE_THRESHOLD", 0.85),

		MaxUploadMB: getenvInt("MAX_UPLOAD_MB", 10),
	}
}

// Debug reports whether internal error details may be sent to clients.
func (c Config) Debug() bool {
	return strings.EqualFold(c.Env, "development")
}

func (c Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

func getenv(k, fallback string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(k string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat32(k string, fallback float32) float32 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return fallback
	}
	return float32(f)
}
