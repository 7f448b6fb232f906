package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Predict  PredictConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

// PredictConfig holds the endpoints of the external prediction services.
// Timeouts and the retry base delay are expressed in seconds.
type PredictConfig struct {
	ChatURL        string
	ChatTimeout    int
	UploadURL      string
	UploadTimeout  int
	MaxRetries     int
	RetryBaseDelay int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Predict: PredictConfig{
			ChatURL:        getEnv("CHATBOT_API_URL", "http://10.30.14.40:8889/predict"),
			ChatTimeout:    getEnvAsInt("CHATBOT_API_TIMEOUT", 60),
			UploadURL:      getEnv("UPLOAD_API_URL", "http://10.30.14.40:8888/predict"),
			UploadTimeout:  getEnvAsInt("UPLOAD_API_TIMEOUT", 120),
			MaxRetries:     getEnvAsInt("PREDICT_MAX_RETRIES", 3),
			RetryBaseDelay: getEnvAsInt("PREDICT_RETRY_BASE_DELAY", 2),
		},
	}
}

// IsProduction reports whether the app talks to the real prediction APIs.
// Every other environment gets the dispatcher's mock bypass.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
