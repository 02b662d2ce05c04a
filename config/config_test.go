package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	for _, key := range []string{"PORT", "MONGODB_DATABASE", "TOKEN_TTL", "MAX_UPLOAD_BYTES", "CORS_ORIGINS", "ISSUE_DAILY_LIMIT", "GO_ENV"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.MongoDatabase != "civiceye" {
		t.Errorf("MongoDatabase = %q, want civiceye", cfg.MongoDatabase)
	}
	if cfg.TokenTTL != 72*time.Hour {
		t.Errorf("TokenTTL = %v, want 72h", cfg.TokenTTL)
	}
	if cfg.MaxImages != 5 {
		t.Errorf("MaxImages = %d, want 5", cfg.MaxImages)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 10<<20)
	}
	if got, want := cfg.MaxCreateBodyBytes(), int64(5*(10<<20)+(1<<20)); got != want {
		t.Errorf("MaxCreateBodyBytes = %d, want %d", got, want)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("ISSUE_DAILY_LIMIT", "3")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example,")
	t.Setenv("GO_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.TokenTTL != time.Hour || cfg.IssueDailyLimit != 3 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction = false, want true")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing mongo uri", map[string]string{"MONGODB_URI": "", "JWT_SECRET": "s"}},
		{"missing jwt secret", map[string]string{"MONGODB_URI": "mongodb://x", "JWT_SECRET": ""}},
		{"bad ttl", map[string]string{"MONGODB_URI": "mongodb://x", "JWT_SECRET": "s", "TOKEN_TTL": "soon"}},
		{"bad limit", map[string]string{"MONGODB_URI": "mongodb://x", "JWT_SECRET": "s", "ISSUE_DAILY_LIMIT": "many"}},
		{"zero upload size", map[string]string{"MONGODB_URI": "mongodb://x", "JWT_SECRET": "s", "MAX_UPLOAD_BYTES": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("Load succeeded, want error")
			}
		})
	}
}
