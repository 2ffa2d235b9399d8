package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type EmailConfig struct {
	SMTPHost     string   `yaml:"smtp_host"`
	SMTPPort     int      `yaml:"smtp_port"`
	SMTPUser     string   `yaml:"smtp_user"`
	SMTPPassword string   `yaml:"smtp_password"`
	FromEmail    string   `yaml:"from_email"`
	Recipients   []string `yaml:"recipients"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN           string `yaml:"url"`
		RunMigrations bool   `yaml:"run_migrations"`
	} `yaml:"database"`
	Storage struct {
		// Driver is "postgres" or "memory".
		Driver string `yaml:"driver"`
	} `yaml:"storage"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Pipeline struct {
		// TransitionPolicy is "any" or "forward_only".
		TransitionPolicy string `yaml:"transition_policy"`
	} `yaml:"pipeline"`
	Notifications struct {
		Enabled  bool           `yaml:"enabled"`
		Telegram TelegramConfig `yaml:"telegram"`
		Email    EmailConfig    `yaml:"email"`
	} `yaml:"notifications"`
	Reports struct {
		FontPath string `yaml:"font_path"`
	} `yaml:"reports"`
}

// LoadConfig reads the YAML file at path, then applies .env and environment overrides.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	if env := os.Getenv("CONFIG_PATH"); env != "" {
		path = env
	}
	if path == "" {
		path = DefaultPath
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("APP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid APP_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Pipeline.TransitionPolicy == "" {
		c.Pipeline.TransitionPolicy = "any"
	}
	if c.Notifications.Email.SMTPPort == 0 {
		c.Notifications.Email.SMTPPort = 587
	}
	if c.Reports.FontPath == "" {
		c.Reports.FontPath = "assets/fonts/DejaVuSans.ttf"
	}
}
