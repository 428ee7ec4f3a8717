package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Google    GoogleConfig
	WebSocket WebSocketConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// SessionConfig carries the process-wide signing secret. It is loaded once
// at startup and never rotated at runtime.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	Issuer       string
}

type WebSocketConfig struct {
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration
}

type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

func Load() (*Config, error) {
	godotenv.Load()

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5984"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "quicknotes"),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "dev-secret-change-in-production"),
			TTL:    sessionTTL,
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			Issuer:       getEnv("GOOGLE_ISSUER", "https://accounts.google.com"),
		},
		WebSocket: WebSocketConfig{
			WriteWait:  10 * time.Second,
			PongWait:   60 * time.Second,
			PingPeriod: 54 * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
