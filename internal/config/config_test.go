package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Client.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected base URL: %s", cfg.Client.BaseURL)
	}
	if cfg.Client.FileType != "pdf" {
		t.Fatalf("unexpected file type: %s", cfg.Client.FileType)
	}
	if cfg.Client.RequestTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Client.RequestTimeout)
	}
	if cfg.Session.Strict {
		t.Fatal("session strict mode should default off")
	}
	if cfg.Server.Addr != ":8000" {
		t.Fatalf("unexpected server addr: %s", cfg.Server.Addr)
	}
	if cfg.AI.Enabled() {
		t.Fatal("AI should be disabled without credentials")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DOCCHAT_BASE_URL", "https://api.example.com/")
	t.Setenv("DOCCHAT_FILE_TYPE", "CSV")
	t.Setenv("DOCCHAT_REQUEST_TIMEOUT", "5")
	t.Setenv("DOCCHAT_SESSION_STRICT", "true")
	t.Setenv("PORT", "127.0.0.1:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Client.BaseURL != "https://api.example.com" {
		t.Fatalf("trailing slash not trimmed: %s", cfg.Client.BaseURL)
	}
	if cfg.Client.FileType != "csv" {
		t.Fatalf("file type not normalized: %s", cfg.Client.FileType)
	}
	if cfg.Client.RequestTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Client.RequestTimeout)
	}
	if !cfg.Session.Strict {
		t.Fatal("session strict mode should be on")
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected server addr: %s", cfg.Server.Addr)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("DOCCHAT_FILE_TYPE", "xlsx")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported file type")
	}
}
