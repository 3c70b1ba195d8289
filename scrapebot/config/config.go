package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBName     string `yaml:"db_name"`
	JWTSecret  string `yaml:"jwt_secret"`

	// AI provider selection. "openai", "anthropic" or empty to disable.
	AIProvider      string `yaml:"ai_provider"`
	OpenAIKey       string `yaml:"-"`
	AnthropicKey    string `yaml:"-"`
	MaxSummaryWords int    `yaml:"max_summary_words"`

	ScrapeDelay   time.Duration `yaml:"scrape_delay"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	RespectRobots bool          `yaml:"respect_robots"`

	MinIOEndpoint  string `yaml:"minio_endpoint"`
	MinIOAccessKey string `yaml:"minio_access_key"`
	MinIOSecretKey string `yaml:"minio_secret_key"`
	MinIOBucket    string `yaml:"minio_bucket"`
}

// LoadConfig reads .env (if present), then the environment, then an optional
// scrapebot.yaml overlay. Environment values win over yaml defaults.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:      ":8000",
		MaxSummaryWords: 200,
		ScrapeDelay:     time.Second,
		FetchTimeout:    10 * time.Second,
		RespectRobots:   true,
		MinIOBucket:     "scrapebot",
	}
	applyYAML(&cfg, "scrapebot.yaml")

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)

	cfg.AIProvider = getEnv("AI_PROVIDER", cfg.AIProvider)
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.MaxSummaryWords = getEnvInt("MAX_SUMMARY_WORDS", cfg.MaxSummaryWords)

	cfg.ScrapeDelay = getEnvDuration("SCRAPE_DELAY", cfg.ScrapeDelay)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.RespectRobots = getEnvBool("RESPECT_ROBOTS", cfg.RespectRobots)

	cfg.MinIOEndpoint = getEnv("MINIO_ENDPOINT", cfg.MinIOEndpoint)
	cfg.MinIOAccessKey = getEnv("MINIO_ACCESS_KEY", cfg.MinIOAccessKey)
	cfg.MinIOSecretKey = getEnv("MINIO_SECRET_KEY", cfg.MinIOSecretKey)
	cfg.MinIOBucket = getEnv("MINIO_BUCKET", cfg.MinIOBucket)

	return cfg
}

func applyYAML(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = yaml.Unmarshal(data, cfg)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
