package config

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TelegramAPIToken != "token" {
		t.Errorf("TelegramAPIToken = %q", cfg.TelegramAPIToken)
	}
	if cfg.Env != "local" || cfg.Storage.Driver != DriverSQLite {
		t.Errorf("Env = %q, Storage.Driver = %q", cfg.Env, cfg.Storage.Driver)
	}
	if !slices.Equal(cfg.Quiz.Presets, []int{20, 40, 60, 100}) {
		t.Errorf("Quiz.Presets = %v", cfg.Quiz.Presets)
	}
	if cfg.Quiz.CorrectAdvanceDelay != 500*time.Millisecond || cfg.Quiz.IncorrectAdvanceDelay != 2*time.Second {
		t.Errorf("advance delays = %v / %v", cfg.Quiz.CorrectAdvanceDelay, cfg.Quiz.IncorrectAdvanceDelay)
	}
	if cfg.Quiz.SessionIdleTTL != 30*time.Minute {
		t.Errorf("Quiz.SessionIdleTTL = %v", cfg.Quiz.SessionIdleTTL)
	}
	if cfg.Telegram.UpdateTimeout != 60 || cfg.HTTP.Addr != ":8080" {
		t.Errorf("Telegram.UpdateTimeout = %d, HTTP.Addr = %q", cfg.Telegram.UpdateTimeout, cfg.HTTP.Addr)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/drivesmart")
	t.Setenv("QUIZ_INCORRECT_ADVANCE_DELAY", "3s")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("Env = %q", cfg.Env)
	}
	if dsn, err := cfg.DB.DSN(); err != nil || dsn != "postgres://localhost/drivesmart" {
		t.Errorf("DSN() = %q, %v", dsn, err)
	}
	if cfg.Quiz.IncorrectAdvanceDelay != 3*time.Second {
		t.Errorf("Quiz.IncorrectAdvanceDelay = %v", cfg.Quiz.IncorrectAdvanceDelay)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "missing token",
			env:     map[string]string{"TELEGRAM_API_TOKEN": ""},
			wantErr: ErrMissingEnvironmentVariables,
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"TELEGRAM_API_TOKEN": "token", "STORAGE_DRIVER": "postgres", "DATABASE_URL": ""},
			wantErr: ErrMissingEnvironmentVariables,
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"TELEGRAM_API_TOKEN": "token", "STORAGE_DRIVER": "mongo"},
			wantErr: ErrUnsupportedStorageDriver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
