package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	MongoURI  string
	DBName    string
	Port      string
	JWTSecret string
	BaseURL   string
	UploadDir string
}

// ConfigInstance is the global configuration instance
var ConfigInstance *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		MongoURI:  os.Getenv("MONGODB_URI"),
		DBName:    os.Getenv("DB_NAME"),
		Port:      os.Getenv("PORT"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		BaseURL:   os.Getenv("BASE_URL"),
		UploadDir: os.Getenv("UPLOAD_DIR"),
	}

	if config.Port == "" {
		config.Port = "5000"
	}

	if config.MongoURI == "" {
		config.MongoURI = "mongodb://localhost:27017"
	}

	if config.DBName == "" {
		config.DBName = "classhub"
	}

	if config.BaseURL == "" {
		config.BaseURL = fmt.Sprintf("http://localhost:%s", config.Port)
	}

	if config.UploadDir == "" {
		config.UploadDir = "uploads"
	}

	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}
