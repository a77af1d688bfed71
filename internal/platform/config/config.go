package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	JWTSigningKey  string
	BootstrapAdmin string
	PostgresDSN    string
	Redis          RedisConfig
	Kafka          KafkaConfig
}

// RedisConfig captures connection settings for the record cache. An empty URL
// disables caching entirely.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig captures the event stream settings. Empty Brokers disables the
// Kafka sink; events are then only kept in the local event log.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// RecordCacheTTL bounds how stale a cached vehicle record may get.
var RecordCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CARTEGRISE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	topic := os.Getenv("CARTEGRISE_KAFKA_TOPIC")
	if topic == "" {
		topic = "cartegrise.registry.events"
	}

	return Server{
		Addr:           addr,
		JWTSigningKey:  jwtSigningKey,
		BootstrapAdmin: strings.ToLower(os.Getenv("CARTEGRISE_BOOTSTRAP_ADMIN")),
		PostgresDSN:    os.Getenv("CARTEGRISE_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("CARTEGRISE_REDIS_URL"),
			PoolSize:     envInt("CARTEGRISE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("CARTEGRISE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("CARTEGRISE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("CARTEGRISE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("CARTEGRISE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("CARTEGRISE_KAFKA_BROKERS")),
			Topic:   topic,
		},
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
