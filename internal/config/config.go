package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. It is loaded once at
// startup and read-only afterwards.
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds the signing secret and token lifetimes. A single secret
// signs all token kinds.
type JWTConfig struct {
	Secret           string
	AccessTokenMins  int
	RefreshTokenDays int
	ResetTokenMins   int
}

// CookieConfig holds refresh-cookie attributes.
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// Load reads configuration from a .env file and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: %q (must be 'dev' or 'prod')", appMode)
	}

	cfg := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Cookie:   loadCookieConfig(appMode),
	}

	log.Printf("configuration loaded [mode: %s]", appMode)
	return cfg, nil
}

func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := envPrefix(mode)
	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "condocore"),
	}
}

func loadJWTConfig(mode string) JWTConfig {
	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))
	resetMins, _ := strconv.Atoi(getEnv("RESET_TOKEN_MINUTES", "30"))

	return JWTConfig{
		Secret:           getEnv(envPrefix(mode)+"JWT_SECRET", "default_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
		ResetTokenMins:   resetMins,
	}
}

func loadCookieConfig(mode string) CookieConfig {
	secure, _ := strconv.ParseBool(getEnv(envPrefix(mode)+"COOKIE_SECURE", "false"))
	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func envPrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true in development mode.
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// GetAllowedOrigins returns the CORS allow-list.
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" && c.IsDev() {
		return "*"
	}
	return origins
}
