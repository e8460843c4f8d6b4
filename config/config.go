package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"fashun-backend/pkg/database"

	"go.uber.org/zap"
)

type Config struct {
	Port string
	DB   DB

	Redis Redis

	KafkaBrokers    []string
	KafkaTopicEmail string

	CronSecret string

	// Порог "мало на складе" для сводки инвентаря
	LowStockThreshold int

	// Интервалы фоновых задач recovery-сервиса
	SweepInterval   time.Duration
	CleanupInterval time.Duration
}

type DB struct {
	database.Config
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	CartTTL  time.Duration
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port: getEnv("APP_PORT", log),
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnv("DB_SSLMODE", log),
			},
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", log),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       atoiDefault(os.Getenv("REDIS_DB"), 0),
			CartTTL:  time.Duration(atoiDefault(os.Getenv("CART_TTL_HOURS"), 168)) * time.Hour,
		},
		KafkaBrokers:      splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		KafkaTopicEmail:   getEnv("KAFKA_TOPIC_EMAIL", log),
		CronSecret:        getEnv("CRON_SECRET", log),
		LowStockThreshold: atoiDefault(os.Getenv("LOW_STOCK_THRESHOLD"), 10),
		SweepInterval:     time.Duration(atoiDefault(os.Getenv("RECOVERY_SWEEP_HOURS"), 4)) * time.Hour,
		CleanupInterval:   time.Duration(atoiDefault(os.Getenv("CLEANUP_INTERVAL_HOURS"), 24)) * time.Hour,
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Обязательная переменная окружения не установлена", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
