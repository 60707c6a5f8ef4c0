// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"walletwhisper/internal/validator"
)

// DefaultAPIKey is only a fallback for local runs. Production refuses it.
const DefaultAPIKey = "default-key"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Port            string        `koanf:"PORT" validate:"port"`
	Env             string        `koanf:"APP_ENV" validate:"oneof=development production"`
	APIKey          string        `koanf:"API_KEY" validate:"required,notblank"`
	JWTExpiresIn    time.Duration `koanf:"JWT_EXPIRES_IN" validate:"gte=1m,lte=720h"`
	LogLevel        string        `koanf:"LOG_LEVEL" validate:"loglevel"`
	LogJSON         bool          `koanf:"LOG_JSON"`
	DatabaseURL     string        `koanf:"DATABASE_URL"`
	ShutdownTimeout time.Duration `koanf:"SHUTDOWN_TIMEOUT" validate:"gt=0"`

	TelegramBotToken      string `koanf:"TELEGRAM_BOT_TOKEN"`
	TelegramWebhookURL    string `koanf:"TELEGRAM_WEBHOOK_URL" validate:"omitempty,url"`
	TelegramWebhookSecret string `koanf:"TELEGRAM_WEBHOOK_SECRET"`
	// comma-separated user ids, parsed into TelegramAllowedUsers
	TelegramAllowedUsersRaw string  `koanf:"TELEGRAM_ALLOWED_USERS"`
	TelegramAllowedUsers    []int64 `koanf:"-"`
}

func Defaults() Config {
	return Config{
		Port:            "8080",
		Env:             EnvDevelopment,
		APIKey:          DefaultAPIKey,
		JWTExpiresIn:    24 * time.Hour,
		LogLevel:        "INFO",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads .env (if present) and the environment on top of Defaults.
// Empty variables are treated as unset.
func Load() (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	provider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return key, value
	})
	if err := k.Load(provider, nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	ids, err := parseUserIDs(cfg.TelegramAllowedUsersRaw)
	if err != nil {
		return Config{}, err
	}
	cfg.TelegramAllowedUsers = ids

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad exits the process when the configuration is invalid.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.UsesDefaultAPIKey() {
		slog.Warn("API_KEY is not set, using the insecure default key")
	}
	return cfg
}

// Validate reports every rule the configuration breaks.
func (c Config) Validate() error {
	var problems []string

	if err := validator.Struct(c); err != nil {
		problems = append(problems, err.Error())
	}

	if c.Env == EnvProduction {
		if c.UsesDefaultAPIKey() {
			problems = append(problems, "API_KEY must be set in production")
		} else if len(c.APIKey) < 16 {
			problems = append(problems, "API_KEY must be at least 16 characters in production")
		}
	}

	if c.TelegramWebhookURL != "" && c.TelegramBotToken == "" {
		problems = append(problems, "TELEGRAM_WEBHOOK_URL requires TELEGRAM_BOT_TOKEN")
	}
	if c.TelegramWebhookURL != "" && strings.TrimSpace(c.TelegramWebhookSecret) == "" {
		problems = append(problems, "TELEGRAM_WEBHOOK_URL requires TELEGRAM_WEBHOOK_SECRET")
	}

	if len(problems) > 0 {
		return errors.New("config validation failed: " + strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) UsesDefaultAPIKey() bool {
	return c.APIKey == DefaultAPIKey
}

func (c Config) JournalEnabled() bool {
	return c.DatabaseURL != ""
}

func (c Config) TelegramWebhookEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramWebhookURL != ""
}

func parseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USERS entry %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
