package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env      string
	HTTPAddr string

	StorageMode string // "memory" or "mongo"
	MongoURI    string
	MongoDB     string

	CacheMode string // "memory" or "redis"
	RedisAddr string
	RedisDB   int

	KafkaBrokers       []string
	KafkaTopicPrefix   string
	KafkaConsumerGroup string

	SearchCacheTTL     time.Duration
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration

	TaxRate        float64
	ServiceFeeRate float64
	Currency       string
	ExchangeRate   float64

	RoomTypeFixtures string
	SeedWindowDays   int
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:                getEnv("APP_ENV", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		StorageMode:        strings.ToLower(getEnv("STORAGE_MODE", "memory")),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDB:            getEnv("MONGO_DB", "innkeep"),
		CacheMode:          strings.ToLower(getEnv("CACHE_MODE", "memory")),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaTopicPrefix:   getEnv("KAFKA_TOPIC_PREFIX", ""),
		KafkaConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "innkeep-cache"),
		Currency:           strings.ToUpper(getEnv("CURRENCY", "USD")),
		RoomTypeFixtures:   getEnv("ROOM_TYPE_FIXTURES", ""),
	}

	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	var err error
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.SearchCacheTTL, err = parseDurationEnv("SEARCH_CACHE_TTL", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.OutboxPollInterval, err = parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.TaxRate, err = parseFloatEnv("TAX_RATE", 0.10); err != nil {
		return Config{}, err
	}
	if cfg.ServiceFeeRate, err = parseFloatEnv("SERVICE_FEE_RATE", 0); err != nil {
		return Config{}, err
	}
	if cfg.ExchangeRate, err = parseFloatEnv("EXCHANGE_RATE", 1.0); err != nil {
		return Config{}, err
	}
	if cfg.SeedWindowDays, err = parseIntEnv("SEED_WINDOW_DAYS", 365); err != nil {
		return Config{}, err
	}

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	if cfg.StorageMode == "mongo" && cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=mongo")
	}
	if cfg.CacheMode == "redis" && cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("REDIS_ADDR is required when CACHE_MODE=redis")
	}
	if cfg.TaxRate < 0 || cfg.ServiceFeeRate < 0 {
		return Config{}, fmt.Errorf("tax and service fee rates must not be negative")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return v, nil
}

func parseFloatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s number: %w", key, err)
	}
	return v, nil
}
