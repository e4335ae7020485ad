package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Renderer RendererConfig
	Export   ExportConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type RendererConfig struct {
	DiagramURL         string
	DiagramTimeoutSec  int
	DiagramCacheTTLMin int
	PdfURL             string
	PdfTimeoutSec      int
}

type ExportConfig struct {
	TopicName       string
	DiagramLanguage string
	MaxBodyBytes    int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
		},
		Renderer: RendererConfig{
			DiagramURL:         getEnv("DIAGRAM_RENDERER_URL", "http://localhost:8000"),
			DiagramTimeoutSec:  getEnvAsInt("DIAGRAM_RENDERER_TIMEOUT_SEC", 15),
			DiagramCacheTTLMin: getEnvAsInt("DIAGRAM_CACHE_TTL_MIN", 30),
			PdfURL:             getEnv("PDF_RENDERER_URL", "http://localhost:3030"),
			PdfTimeoutSec:      getEnvAsInt("PDF_RENDERER_TIMEOUT_SEC", 30),
		},
		Export: ExportConfig{
			TopicName:       getEnv("EXPORT_EVENTS_TOPIC_NAME", "EXPORT_EVENTS"),
			DiagramLanguage: getEnv("DIAGRAM_LANGUAGE", "mermaid"),
			MaxBodyBytes:    getEnvAsInt("MAX_BODY_BYTES", 10*1024*1024),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
