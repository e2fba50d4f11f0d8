package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL string
	RedisURL    string

	FREDAPIKey string

	CollectHourUTC   int
	CollectPollSecs  int
	RetentionDays    int
	DashboardTTLSecs int

	HTTPPort       int
	SSHPort        int
	SSHHostKeyPath string
	AdminAPIKey    string

	OpenAIAPIKey      string
	OpenAIModel       string
	AdvisorMaxHistory int

	TelegramBotToken string
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		FREDAPIKey:       os.Getenv("FRED_API_KEY"),
		AdminAPIKey:      os.Getenv("ADMIN_API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.FREDAPIKey == "" {
		log.Println("Warning: FRED_API_KEY not set, FRED series will be skipped")
	}
	if cfg.AdminAPIKey == "" {
		log.Println("Warning: ADMIN_API_KEY not set, manual collection endpoint disabled")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}

	cfg.RedisURL = os.Getenv("REDIS_URL")
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.CollectHourUTC = 22
	if v := strings.TrimSpace(os.Getenv("COLLECT_HOUR_UTC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 23 {
			cfg.CollectHourUTC = n
		}
	}

	cfg.CollectPollSecs = 300
	if v := strings.TrimSpace(os.Getenv("COLLECT_POLL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CollectPollSecs = n
		}
	}

	cfg.RetentionDays = 3650
	if v := strings.TrimSpace(os.Getenv("HISTORY_RETENTION_DAYS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RetentionDays = n
		}
	}

	cfg.DashboardTTLSecs = 300
	if v := strings.TrimSpace(os.Getenv("DASHBOARD_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DashboardTTLSecs = n
		}
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	cfg.SSHPort = 2222
	if v := strings.TrimSpace(os.Getenv("SSH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSHPort = n
		}
	}

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/market_timer_ed25519"
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, advisor will be disabled")
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.AdvisorMaxHistory = 20
	if v := os.Getenv("ADVISOR_MAX_HISTORY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AdvisorMaxHistory = n
		}
	}

	return cfg
}
