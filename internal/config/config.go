package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MigrationsPath  string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type StoreConfig struct {
	Name           string
	Timezone       string
	PaymentBaseURL string
}

type TelegramConfig struct {
	BotToken string
	ChatID   string
}

type SMTPConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	From          string
	OperatorEmail string
}

type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Store    StoreConfig
	Telegram TelegramConfig
	SMTP     SMTPConfig
}

func NewConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.App.Port = getEnv("APP_PORT", "8080")

	var err error
	cfg.Postgres.Host, err = requireEnv("DB_HOST")
	if err != nil {
		return nil, err
	}
	cfg.Postgres.Port = getEnv("DB_PORT", "5432")
	cfg.Postgres.User, err = requireEnv("DB_USER")
	if err != nil {
		return nil, err
	}
	cfg.Postgres.Password, err = requireEnv("DB_PASSWORD")
	if err != nil {
		return nil, err
	}
	cfg.Postgres.DBName, err = requireEnv("DB_NAME")
	if err != nil {
		return nil, err
	}
	cfg.Postgres.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = getEnv("DB_MIGRATIONS_PATH", "migrations")
	cfg.Postgres.MaxConns = int32(getEnvInt("DB_MAX_CONNS", 10))
	cfg.Postgres.MinConns = int32(getEnvInt("DB_MIN_CONNS", 2))
	cfg.Postgres.MaxConnLifetime = time.Duration(getEnvInt("DB_MAX_CONN_LIFETIME_MINUTES", 30)) * time.Minute

	cfg.Store.Name = getEnv("STORE_NAME", "Nova Asia")
	cfg.Store.Timezone = getEnv("STORE_TIMEZONE", "Europe/Amsterdam")
	cfg.Store.PaymentBaseURL = getEnv("PAYMENT_BASE_URL", "")

	cfg.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.Telegram.ChatID = getEnv("TELEGRAM_CHAT_ID", "")

	cfg.SMTP.Host = getEnv("SMTP_SERVER", "smtp.gmail.com")
	cfg.SMTP.Port = getEnvInt("SMTP_PORT", 587)
	cfg.SMTP.Username = getEnv("SMTP_USERNAME", "")
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", "")
	cfg.SMTP.From = getEnv("FROM_EMAIL", cfg.SMTP.Username)
	cfg.SMTP.OperatorEmail = getEnv("OPERATOR_EMAIL", cfg.SMTP.From)

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func requireEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("config: %s is required", key)
	}
	return v, nil
}
