package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	SMTP      SMTPConfig
	Ai        AIConfig
	Rag       RagConfig
	Evolution EvolutionConfig
	Admin     AdminConfig
	Catalog   CatalogConfig
	Bot       BotConfig
	Worker    WorkerConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	MonitorLogPath     string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type RedisConfig struct {
	URL string
}

type SessionConfig struct {
	Backend        string // "memory" or "redis"
	TTLSeconds     int
	KeyPrefix      string
	SerializeTurns bool
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	OwnerEmail string
}

type AIConfig struct {
	LLMProvider       string // "openai" or "ollama"
	LLMModel          string
	LLMBaseURL        string
	LLMAPIKey         string
	EmbeddingProvider string // "openai", "ollama" or "gemini"
	EmbeddingModel    string
	EmbeddingBaseURL  string
	EmbeddingAPIKey   string
}

type RagConfig struct {
	TopK      int
	MinScore  float64
	ChunkSize int
	Dimension int
}

type EvolutionConfig struct {
	URL         string
	Token       string
	Instance    string
	DelayMs     int
	OwnerNumber string
}

type AdminConfig struct {
	Token     string
	TokenHash string
	JWTSecret string
}

type CatalogConfig struct {
	CSVPath string
}

type BotConfig struct {
	MaxTurns      int
	HistoryWindow int
}

type WorkerConfig struct {
	Concurrency        int
	InboundTopic       string
	ReservationSubject string
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/bot.log"),
			MonitorLogPath:     getEnv("MONITOR_LOG_FILE_PATH", "logs/monitor.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Session: SessionConfig{
			Backend:        getEnv("SESSION_BACKEND", "memory"),
			TTLSeconds:     getEnvAsInt("SESSION_TTL_SECONDS", 172800),
			KeyPrefix:      getEnv("SESSION_KEY_PREFIX", "wa:session:"),
			SerializeTurns: getEnvAsBool("SESSION_SERIALIZE_TURNS", true),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "WA Bot"),
			OwnerEmail: getEnv("OWNER_EMAIL", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMAPIKey:         getEnv("OPENAI_API_KEY", ""),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingBaseURL:  getEnv("EMBEDDING_BASE_URL", ""),
			EmbeddingAPIKey:   getEnv("EMBEDDING_API_KEY", getEnv("OPENAI_API_KEY", "")),
		},
		Rag: RagConfig{
			TopK:      getEnvAsInt("RAG_TOP_K", 6),
			MinScore:  getEnvAsFloat("RAG_MIN_SCORE", 0),
			ChunkSize: getEnvAsInt("RAG_CHUNK_SIZE", 1200),
			Dimension: getEnvAsInt("EMBEDDING_DIMENSION", 1536),
		},
		Evolution: EvolutionConfig{
			URL:         strings.TrimRight(getEnv("EVO_URL", ""), "/"),
			Token:       getEnv("EVO_TOKEN", ""),
			Instance:    getEnv("EVO_INSTANCE", ""),
			DelayMs:     getEnvAsInt("EVO_DELAY_MS", 0),
			OwnerNumber: getEnv("OWNER_NUMBER", ""),
		},
		Admin: AdminConfig{
			Token:     getEnv("ADMIN_TOKEN", ""),
			TokenHash: getEnv("ADMIN_TOKEN_HASH", ""),
			JWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		},
		Catalog: CatalogConfig{
			CSVPath: getEnv("CATALOG_CSV_PATH", ""),
		},
		Bot: BotConfig{
			MaxTurns:      getEnvAsInt("BOT_MAX_TURNS", 6),
			HistoryWindow: getEnvAsInt("BOT_HISTORY_WINDOW", 12),
		},
		Worker: WorkerConfig{
			Concurrency:        getEnvAsInt("WORKER_CONCURRENCY", 8),
			InboundTopic:       getEnv("INBOUND_MESSAGE_TOPIC", "INBOUND_MESSAGE"),
			ReservationSubject: getEnv("RESERVATION_DURABLE_NAME", "reservation-notifier"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "wa-bot-sheets"),
		},
	}
}

var (
	ErrMissingDatabase   = errors.New("config: DB_CONNECTION_STRING is required")
	ErrMissingAdminCreds = errors.New("config: one of ADMIN_TOKEN, ADMIN_TOKEN_HASH or ADMIN_JWT_SECRET is required")
	ErrMissingRedis      = errors.New("config: REDIS_URL is required when SESSION_BACKEND=redis")
)

// Validate reports the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Database.Connection) == "" {
		errs = append(errs, ErrMissingDatabase)
	}
	if c.Admin.Token == "" && c.Admin.TokenHash == "" && c.Admin.JWTSecret == "" {
		errs = append(errs, ErrMissingAdminCreds)
	}
	if c.Session.Backend == "redis" && c.Redis.URL == "" {
		errs = append(errs, ErrMissingRedis)
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
