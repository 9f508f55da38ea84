package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerAddr  string
	LogLevel    string
	Environment string

	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret  []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// "cookie" or "bearer", fixed per deployment.
	TokenTransport string

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return &Config{
		ServiceName: EnvDefault("SERVICE_NAME", "foodfinder-api"),
		ServerAddr:  EnvDefault("SERVER_ADDR", ":8080"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),
		Environment: EnvDefault("ENVIRONMENT", "development"),

		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBMaxOpenConns: EnvIntDefault("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns: EnvIntDefault("DB_MAX_IDLE_CONNS", 10),

		JWTSecret:  []byte(os.Getenv("JWT_SECRET")),
		AccessTTL:  EnvDurationDefault("ACCESS_TOKEN_TTL", 60*time.Second),
		RefreshTTL: EnvDurationDefault("REFRESH_TOKEN_TTL", 24*time.Hour),

		TokenTransport: EnvDefault("TOKEN_TRANSPORT", "cookie"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "user_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "locations"),
	}
}

func (c *Config) Production() bool {
	return c.Environment == "production"
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
