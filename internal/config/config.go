package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"jobprep/interview/internal/interview"
)

// app config, loaded from environment variables
type Config struct {
	Port string

	DBDriver string // sqlite or postgres
	DBDSN    string

	RedisAddr     string
	RedisPassword string
	HistoryTopic  string

	MongoURI        string
	QuestionsDBName string

	JWTSecret string

	SessionTTL       time.Duration
	QuestionSeconds  int
	AnalysisDelay    time.Duration
	FeedbackStrategy string

	HistoryExportEnabled  bool
	HistoryExportSchedule string
	HistoryExportDir      string

	RateLimitPerMin int
	RateLimitBurst  int

	AllowedOrigins []string
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:                  getEnvOrDefault("PORT", "8080"),
		DBDriver:              strings.ToLower(getEnvOrDefault("DB_DRIVER", "sqlite")),
		DBDSN:                 os.Getenv("DB_DSN"),
		RedisAddr:             getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		HistoryTopic:          getEnvOrDefault("HISTORY_TOPIC", "interview:history"),
		MongoURI:              os.Getenv("MONGO_URI"),
		QuestionsDBName:       getEnvOrDefault("QUESTIONS_DB_NAME", "questions"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		SessionTTL:            getEnvDuration("SESSION_TTL", 30*time.Minute),
		QuestionSeconds:       getEnvInt("QUESTION_SECONDS", 120),
		AnalysisDelay:         getEnvDuration("ANALYSIS_DELAY", 1500*time.Millisecond),
		FeedbackStrategy:      getEnvOrDefault("FEEDBACK_STRATEGY", "simulated"),
		HistoryExportEnabled:  getEnvBool("HISTORY_EXPORT_ENABLED", false),
		HistoryExportSchedule: getEnvOrDefault("HISTORY_EXPORT_SCHEDULE", "0 3 * * *"),
		HistoryExportDir:      getEnvOrDefault("HISTORY_EXPORT_DIR", "exports"),
		RateLimitPerMin:       getEnvInt("RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:        getEnvInt("RATE_LIMIT_BURST", 20),
		AllowedOrigins:        splitList(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
	}
	if config.DBDSN == "" && config.DBDriver == "postgres" {
		config.DBDSN = postgresDSNFromEnv()
	}
	if config.DBDSN == "" && config.DBDriver == "sqlite" {
		config.DBDSN = "interview.db"
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.DBDriver != "sqlite" && config.DBDriver != "postgres" {
		return errors.New("unsupported DB driver: " + config.DBDriver + ". Currently supported: sqlite, postgres")
	}
	if config.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if config.QuestionSeconds <= 0 || config.QuestionSeconds > interview.DefaultQuestionSeconds {
		return fmt.Errorf("QUESTION_SECONDS must be between 1 and %d, got %d",
			interview.DefaultQuestionSeconds, config.QuestionSeconds)
	}
	if config.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", config.SessionTTL)
	}
	if config.AnalysisDelay < 0 {
		return fmt.Errorf("ANALYSIS_DELAY must not be negative, got %s", config.AnalysisDelay)
	}
	if config.RateLimitPerMin <= 0 || config.RateLimitBurst <= 0 {
		return errors.New("rate limit settings must be positive")
	}
	return nil
}

func postgresDSNFromEnv() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnvOrDefault("POSTGRES_HOST", "localhost"),
		getEnvOrDefault("POSTGRES_USER", "postgres"),
		getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
		getEnvOrDefault("POSTGRES_DB", "interview"),
		getEnvOrDefault("POSTGRES_PORT", "5432"),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// accepts Go durations ("90s") or a plain number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
