// Package config loads application configuration from environment
// variables, with an optional .env file for local development. Environment
// variables win over the file.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config groups the configuration of both binaries.
type Config struct {
	App  AppConfig
	API  APIConfig
	Stub StubConfig
}

// AppConfig is general application configuration.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// APIConfig configures the client side: where the CRM API lives and where
// the session is persisted between runs.
type APIConfig struct {
	BaseURL string
	DataDir string
}

// StubConfig configures the development stub server.
type StubConfig struct {
	Addr            string
	JWTSecret       string
	TokenTTLMinutes int
}

// Load reads configuration from env vars (APP_ENV, API_BASE_URL, DATA_DIR,
// STUB_ADDR, JWT_SECRET, ...) and an optional .env file in the working
// directory.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // a missing .env file is fine

	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "CRM Console")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("DATA_DIR", defaultDataDir())
	v.SetDefault("STUB_ADDR", ":8080")
	v.SetDefault("JWT_SECRET", "dev-only-secret")
	v.SetDefault("JWT_TTL_MINUTES", 60)

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			Name:     v.GetString("APP_NAME"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		API: APIConfig{
			BaseURL: v.GetString("API_BASE_URL"),
			DataDir: v.GetString("DATA_DIR"),
		},
		Stub: StubConfig{
			Addr:            v.GetString("STUB_ADDR"),
			JWTSecret:       v.GetString("JWT_SECRET"),
			TokenTTLMinutes: v.GetInt("JWT_TTL_MINUTES"),
		},
	}
	return cfg, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".crm-console"
	}
	return filepath.Join(home, ".crm-console")
}
