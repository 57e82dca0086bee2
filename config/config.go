package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every configuration parameter of the service.
type Config struct {
	DatabaseURL string
	ServerPort  int

	OracleAPIKey string
	OracleURL    string
	OracleModel  string

	// First-to-N win count that clinches a playoff series.
	SeriesWinTarget int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

const (
	defaultOracleURL       = "https://api.openai.com/v1/completions"
	defaultOracleModel     = "gpt-3.5-turbo-instruct"
	defaultSeriesWinTarget = 4
)

// Load reads configuration from environment variables. A .env file is
// loaded first when present, which is convenient for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	oracleKey := os.Getenv("ORACLE_API_KEY")
	if oracleKey == "" {
		return nil, fmt.Errorf("ORACLE_API_KEY environment variable is not set")
	}

	oracleURL := os.Getenv("ORACLE_URL")
	if oracleURL == "" {
		oracleURL = defaultOracleURL
	}

	oracleModel := os.Getenv("ORACLE_MODEL")
	if oracleModel == "" {
		oracleModel = defaultOracleModel
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	target := defaultSeriesWinTarget
	if targetStr := os.Getenv("SERIES_WIN_TARGET"); targetStr != "" {
		target, err = strconv.Atoi(targetStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SERIES_WIN_TARGET environment variable: %w", err)
		}
		if target < 1 {
			return nil, fmt.Errorf("SERIES_WIN_TARGET must be positive, got %d", target)
		}
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		ServerPort:        port,
		OracleAPIKey:      oracleKey,
		OracleURL:         oracleURL,
		OracleModel:       oracleModel,
		SeriesWinTarget:   target,
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}
