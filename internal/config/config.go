package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

// BoardConfig holds the fixed enumerations the board is configured with.
// Categories is the canonical department/category list; free-text input is
// matched against it on import and validated against it on manual entry.
type BoardConfig struct {
	Categories      []string `mapstructure:"categories"`
	Team            []string `mapstructure:"team"`
	DefaultCategory string   `mapstructure:"default_category"`
	DefaultAssignee string   `mapstructure:"default_assignee"`
	Cutoff          string   `mapstructure:"cutoff"` // daily hard cutoff, "15:04"
	UrgentMinutes   int      `mapstructure:"urgent_minutes"`
	Seed            bool     `mapstructure:"seed"`
}

// normalize fills derived board defaults and checks cross-field
// consistency. A default category outside the enumeration would make
// every fallback row fail store validation, so it is rejected here
// instead of at the first import.
func (b *BoardConfig) normalize() error {
	if len(b.Categories) == 0 {
		return fmt.Errorf("board.categories must not be empty")
	}
	if b.DefaultCategory == "" {
		b.DefaultCategory = b.Categories[0]
		return nil
	}
	for _, c := range b.Categories {
		if c == b.DefaultCategory {
			return nil
		}
	}
	return fmt.Errorf("board.default_category %q is not one of board.categories", b.DefaultCategory)
}

type SMTPConfig struct {
	Host string   `mapstructure:"host"`
	Port int      `mapstructure:"port"`
	From string   `mapstructure:"from"`
	To   []string `mapstructure:"to"`
}

type NotifyConfig struct {
	Enabled    bool       `mapstructure:"enabled"`
	WebhookURL string     `mapstructure:"webhook_url"`
	SMTP       SMTPConfig `mapstructure:"smtp"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Board    BoardConfig    `mapstructure:"board"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Log      LogConfig      `mapstructure:"log"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. FINTRACK_SERVER_PORT=9000
		v.SetEnvPrefix("FINTRACK")
		v.AutomaticEnv()

		v.SetDefault("database.path", ":memory:")
		v.SetDefault("board.cutoff", "12:00")
		v.SetDefault("board.urgent_minutes", 60)
		v.SetDefault("board.default_assignee", "Team")

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		if err = c.Board.normalize(); err != nil {
			err = fmt.Errorf("config: %w", err)
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
