package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	path := writeConfig(t, "database:\n  url: postgres://localhost/crm\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "postgres" {
		t.Errorf("driver = %q", cfg.Storage.Driver)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.Pipeline.TransitionPolicy != "any" {
		t.Errorf("policy = %q", cfg.Pipeline.TransitionPolicy)
	}
	if cfg.Database.DSN != "postgres://localhost/crm" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
}

func TestLoadConfigFileValues(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	path := writeConfig(t, `
server:
  port: 9090
storage:
  driver: memory
pipeline:
  transition_policy: forward_only
notifications:
  enabled: true
  telegram:
    bot_token: abc
    chat_id: 42
  email:
    smtp_host: smtp.example.com
    recipients: [sales@example.com]
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Storage.Driver != "memory" {
		t.Fatalf("unexpected server/storage: %+v %+v", cfg.Server, cfg.Storage)
	}
	if cfg.Pipeline.TransitionPolicy != "forward_only" {
		t.Fatalf("policy = %q", cfg.Pipeline.TransitionPolicy)
	}
	if !cfg.Notifications.Enabled || cfg.Notifications.Telegram.ChatID != 42 {
		t.Fatalf("notifications = %+v", cfg.Notifications)
	}
	if cfg.Notifications.Email.SMTPPort != 587 || len(cfg.Notifications.Email.Recipients) != 1 {
		t.Fatalf("email = %+v", cfg.Notifications.Email)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("APP_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://env/crm")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 7070 || cfg.Database.DSN != "postgres://env/crm" {
		t.Fatalf("env not applied: %+v %+v", cfg.Server, cfg.Database)
	}
	if cfg.Storage.Driver != "memory" || cfg.Auth.JWTSecret != "s3cret" || cfg.Log.Level != "debug" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	bad := writeConfig(t, "server: [not, a, map\n")
	if _, err := LoadConfig(bad); err == nil {
		t.Fatal("expected parse error")
	}

	ok := writeConfig(t, "server:\n  port: 1\n")
	t.Setenv("APP_PORT", "eighty")
	if _, err := LoadConfig(ok); err == nil {
		t.Fatal("expected APP_PORT error")
	}
}
