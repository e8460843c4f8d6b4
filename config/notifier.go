package config

import (
	"os"

	"go.uber.org/zap"
)

type NotifierConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	TMPLDir string

	KafkaBrokers []string
	KafkaGroupID string
	KafkaTopic   string
}

func LoadNotifier(log *zap.Logger) *NotifierConfig {
	return &NotifierConfig{
		SMTPHost:     getEnv("SMTP_HOST", log),
		SMTPPort:     atoiRequired("SMTP_PORT", log),
		SMTPUser:     getEnv("SMTP_USER", log),
		SMTPPassword: getEnv("SMTP_PASSWORD", log),
		SMTPFrom:     getEnv("SMTP_FROM", log),
		TMPLDir:      getEnv("TMPL_DIR", log),
		KafkaBrokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", log),
		KafkaTopic:   getEnv("KAFKA_TOPIC_EMAIL", log),
	}
}

func atoiRequired(key string, log *zap.Logger) int {
	n := atoiDefault(getEnv(key, log), -1)
	if n < 0 {
		log.Error("Ошибка преобразования переменной окружения в int", zap.String("key", key))
		panic("invalid int value for environment variable: " + key)
	}
	return n
}
