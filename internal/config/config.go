package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the dashboard configuration.
type Config struct {
	ListenAddr    string
	BackendURL    string // base URL of the remote geolocation API
	TokenPath     string // file the bearer token is persisted to
	SessionSecret string
	DevFallback   bool // serve canned geolocation data when the backend fails

	LogLevel  string
	LogPretty bool
}

// Load reads configuration from the environment, with a .env file as
// an optional source for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	backendURL := os.Getenv("API_BASE_URL")
	if backendURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is not set")
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is not set")
	}

	tokenPath := os.Getenv("TOKEN_PATH")
	if tokenPath == "" {
		tokenPath = filepath.Join("data", "auth_token")
	}

	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		BackendURL:    backendURL,
		TokenPath:     tokenPath,
		SessionSecret: sessionSecret,
		DevFallback:   getEnvAsBool("DEV_FALLBACK", false),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPretty:     getEnvAsBool("LOG_PRETTY", true),
	}, nil
}

// MockConfig holds the configuration of the bundled mock backend.
type MockConfig struct {
	ListenAddr string
	Email      string
	Password   string
	JWTSecret  string
	DBPath     string
}

func LoadMock() (*MockConfig, error) {
	_ = godotenv.Load()

	email := os.Getenv("MOCK_LOGIN_EMAIL")
	password := os.Getenv("MOCK_LOGIN_PASSWORD")
	if email == "" || password == "" {
		return nil, fmt.Errorf("MOCK_LOGIN_EMAIL or MOCK_LOGIN_PASSWORD is not set")
	}

	secret := os.Getenv("MOCK_JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("MOCK_JWT_SECRET is not set")
	}

	return &MockConfig{
		ListenAddr: getEnv("MOCK_LISTEN_ADDR", ":9090"),
		Email:      email,
		Password:   password,
		JWTSecret:  secret,
		DBPath:     getEnv("MOCK_DB_PATH", filepath.Join("data", "history.db")),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
