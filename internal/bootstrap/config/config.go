package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/errs"
)

const DefaultFile = "configs/config.yaml"

const DefaultBaseURL = "https://epa-backend-fxzh.onrender.com"

var pageSizes = []int{5, 10, 25, 50}

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	API           APIConfig           `mapstructure:"api"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Session       SessionConfig       `mapstructure:"session"`
	Polling       PollingConfig       `mapstructure:"polling"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Table         TableConfig         `mapstructure:"table"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type APIConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RateLimit  float64       `mapstructure:"rate_limit"`
	RateBurst  int           `mapstructure:"rate_burst"`
	UserAgent  string        `mapstructure:"user_agent"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type PollingConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type NotificationsConfig struct {
	UnreadLimit int    `mapstructure:"unread_limit"`
	ListLimit   int    `mapstructure:"list_limit"`
	NATSURL     string `mapstructure:"nats_url"`
	NATSSubject string `mapstructure:"nats_subject"`
}

type TableConfig struct {
	PageSize int `mapstructure:"page_size"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithComponent(ctx, "bootstrap.config")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errs.Wrap(err, "load .env")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FREIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.base_url", "FREIGHT_API_BASE_URL", "VITE_API_URL"); err != nil {
		return Config{}, errs.Wrap(err, "bind api.base_url env")
	}

	readFile := true
	switch {
	case configFile == "":
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	case configFile == DefaultFile && !fileExists(configFile):
		logging.Warn(logCtx, "default config file not found, fallback to defaults and env", slog.String("path", configFile))
		readFile = false
	default:
		v.SetConfigFile(configFile)
	}

	if readFile {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if configFile == "" && errors.As(err, &notFound) {
				logging.Warn(logCtx, "config file not found, fallback to defaults and env")
			} else {
				return Config{}, errs.Wrap(err, "read config")
			}
		} else {
			logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("api_base_url", cfg.API.BaseURL),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Duration("polling_interval", cfg.Polling.Interval),
	)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "freightdesk")
	v.SetDefault("app.env", "local")
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", "20s")
	v.SetDefault("api.max_retries", 2)
	v.SetDefault("api.rate_limit", 10)
	v.SetDefault("api.rate_burst", 5)
	v.SetDefault("api.user_agent", "freightdesk")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".freightdesk/state.sqlite")
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("polling.interval", "30s")
	v.SetDefault("notifications.unread_limit", 10)
	v.SetDefault("notifications.list_limit", 100)
	v.SetDefault("notifications.nats_url", "")
	v.SetDefault("notifications.nats_subject", "freightdesk.notifications.changed")
	v.SetDefault("table.page_size", 10)
}

func (c *Config) normalize() error {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = 20 * time.Second
	}
	if c.API.MaxRetries < 0 {
		c.API.MaxRetries = 0
	}
	if c.API.RateBurst <= 0 {
		c.API.RateBurst = 1
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn is required")
	}

	if c.Polling.Interval <= 0 {
		return fmt.Errorf("polling.interval must be positive, got %s", c.Polling.Interval)
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = 12 * time.Hour
	}
	if c.Notifications.UnreadLimit <= 0 {
		c.Notifications.UnreadLimit = 10
	}
	if c.Notifications.ListLimit <= 0 {
		c.Notifications.ListLimit = 100
	}

	if !validPageSize(c.Table.PageSize) {
		c.Table.PageSize = 10
	}
	return nil
}

func validPageSize(size int) bool {
	for _, allowed := range pageSizes {
		if size == allowed {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// TOML renders the effective configuration with durations as strings.
func (c Config) TOML() ([]byte, error) {
	doc := map[string]any{
		"app": map[string]any{
			"name": c.App.Name,
			"env":  c.App.Env,
		},
		"api": map[string]any{
			"base_url":    c.API.BaseURL,
			"timeout":     c.API.Timeout.String(),
			"max_retries": c.API.MaxRetries,
			"rate_limit":  c.API.RateLimit,
			"rate_burst":  c.API.RateBurst,
			"user_agent":  c.API.UserAgent,
		},
		"database": map[string]any{
			"driver": c.Database.Driver,
			"dsn":    c.Database.DSN,
		},
		"session": map[string]any{
			"ttl": c.Session.TTL.String(),
		},
		"polling": map[string]any{
			"interval": c.Polling.Interval.String(),
		},
		"notifications": map[string]any{
			"unread_limit": c.Notifications.UnreadLimit,
			"list_limit":   c.Notifications.ListLimit,
			"nats_url":     c.Notifications.NATSURL,
			"nats_subject": c.Notifications.NATSSubject,
		},
		"table": map[string]any{
			"page_size": c.Table.PageSize,
		},
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, errs.Wrap(err, "marshal config toml")
	}
	return out, nil
}
