package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port   string
	Env    string
	Domain string

	MongoURI      string
	MongoDatabase string

	JWTSecret string
	TokenTTL  time.Duration

	RedisAddress    string
	RedisPassword   string
	IssueLimitQueue string
	IssueDailyLimit int

	UploadDir      string
	MaxUploadBytes int64
	MaxImages      int

	CORSOrigins []string

	BootstrapOfficerName     string
	BootstrapOfficerEmail    string
	BootstrapOfficerPassword string
}

// IsProduction reports whether GO_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// formOverhead covers the text fields and multipart framing of a create request.
const formOverhead = 1 << 20

// MaxCreateBodyBytes is the largest issue creation request accepted: every
// image at the size limit plus the form fields.
func (c *Config) MaxCreateBodyBytes() int64 {
	return int64(c.MaxImages)*c.MaxUploadBytes + formOverhead
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                     getEnv("PORT", "8080"),
		Env:                      os.Getenv("GO_ENV"),
		Domain:                   os.Getenv("DOMAIN"),
		MongoURI:                 os.Getenv("MONGODB_URI"),
		MongoDatabase:            getEnv("MONGODB_DATABASE", "civiceye"),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		RedisAddress:             os.Getenv("REDIS_ADDRESS"),
		RedisPassword:            os.Getenv("REDIS_PASSWORD"),
		IssueLimitQueue:          getEnv("REDIS_QUEUE_FOR_ISSUE_LIMIT", "issue-limit"),
		UploadDir:                getEnv("UPLOAD_DIR", "uploads"),
		MaxImages:                5,
		CORSOrigins:              splitList(getEnv("CORS_ORIGINS", "*")),
		BootstrapOfficerName:     getEnv("BOOTSTRAP_OFFICER_NAME", "Administrator"),
		BootstrapOfficerEmail:    os.Getenv("BOOTSTRAP_OFFICER_EMAIL"),
		BootstrapOfficerPassword: os.Getenv("BOOTSTRAP_OFFICER_PASSWORD"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("please define the MONGODB_URI environment variable")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "72h")); err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if cfg.IssueDailyLimit, err = strconv.Atoi(getEnv("ISSUE_DAILY_LIMIT", "20")); err != nil {
		return nil, fmt.Errorf("invalid ISSUE_DAILY_LIMIT: %w", err)
	}
	if cfg.MaxUploadBytes, err = strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "10485760"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
