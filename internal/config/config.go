package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DBURI         string
	SessionSecret string
	SessionTTL    time.Duration
	ServerAddr    string
	LogLevel      string
	AppEnv        string

	SMTPHost     string
	SMTPPort     int
	MailUser     string
	MailPassword string
	MailTo       string
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		logrus.Debug(".env file not found")
	}
}

// Load собирает конфигурацию из окружения (предварительно стоит вызвать LoadEnv)
func Load() (*Config, error) {
	secret, err := GetEnv("SECRET_APP_KEY")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBURI:         os.Getenv("DB_URI"),
		SessionSecret: secret,
		ServerAddr:    GetEnvDefault("SERVER_ADDR", ":8080"),
		LogLevel:      GetEnvDefault("LOG_LEVEL", "info"),
		AppEnv:        GetEnvDefault("APP_ENV", "development"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		MailUser:      os.Getenv("MAIL_USER"),
		MailPassword:  os.Getenv("EMAIL_APP_PW"),
		MailTo:        os.Getenv("MAIL_TO"),
	}

	ttlHours, err := strconv.Atoi(GetEnvDefault("SESSION_TTL_HOURS", "72"))
	if err != nil || ttlHours <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL_HOURS: %q", os.Getenv("SESSION_TTL_HOURS"))
	}
	cfg.SessionTTL = time.Duration(ttlHours) * time.Hour

	cfg.SMTPPort, err = strconv.Atoi(GetEnvDefault("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	if cfg.MailTo == "" {
		cfg.MailTo = cfg.MailUser
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// MailEnabled - отправлять ли письма с формы контактов по SMTP
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.MailUser != "" && c.MailPassword != ""
}

func GetEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("environment variable %s is not set", key)
	}
	return value, nil
}

func GetEnvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
