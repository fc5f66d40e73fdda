package config

import (
	"errors"
	"os"
	"strings"
)

type HTTPConfig struct {
	Addr string
}

type AppConfig struct {
	ServiceName    string
	LogLevel       string
	Env            string
	HTTP           HTTPConfig
	AdminJWTSecret string
}

// Production reports whether the service runs with APP_ENV=production.
// Production forbids the in-memory store fallback and requires the admin secret.
func (c AppConfig) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: strings.TrimSpace(os.Getenv("SERVICE_NAME")),
		LogLevel:    strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		Env:         strings.TrimSpace(os.Getenv("APP_ENV")),
		HTTP: HTTPConfig{
			Addr: strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		},
		AdminJWTSecret: strings.TrimSpace(os.Getenv("ADMIN_JWT_SECRET")),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "forum-api"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Production() && cfg.AdminJWTSecret == "" {
		return AppConfig{}, errors.New("ADMIN_JWT_SECRET is required in production")
	}
	return cfg, nil
}
