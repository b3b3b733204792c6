package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port            string
	GinMode         string
	MongoURI        string
	DBName          string
	JWTSecret       string
	TokenTTL        time.Duration
	AllowedOrigins  []string
	UploadBucketURL string
	UploadPublicURL string
	LogLevel        string
	LogFormat       string
	TracingEnabled  bool
	ServiceName     string
}

// Origins the storefront runs on during local development.
var devOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:5175",
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

// FromEnv builds a Config from the current process environment.
func FromEnv() Config {
	return Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		MongoURI:        getEnvOrDefault("MONGO_URI", ""),
		DBName:          getEnvOrDefault("DB_NAME", "petshop"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		TokenTTL:        getDurationEnv("JWT_EXPIRE_DAYS", 30, 24*time.Hour),
		AllowedOrigins:  getOriginsEnv("FRONTEND_URL"),
		UploadBucketURL: getEnvOrDefault("UPLOAD_BUCKET_URL", "file:///app/public/images?create_dir=true"),
		UploadPublicURL: strings.TrimRight(getEnvOrDefault("UPLOAD_PUBLIC_URL", "/api/images"), "/"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       getEnvOrDefault("LOG_FORMAT", "json"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
		ServiceName:     getEnvOrDefault("SERVICE_NAME", "petshop-api"),
	}
}

// Validate reports the first required setting that is missing.
func (c Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("ENV MONGO_URI is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("ENV JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("ENV JWT_EXPIRE_DAYS must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getOriginsEnv(key string) []string {
	origins := make([]string, 0, len(devOrigins)+1)
	for _, raw := range strings.Split(os.Getenv(key), ",") {
		if origin := strings.TrimRight(strings.TrimSpace(raw), "/"); origin != "" {
			origins = append(origins, origin)
		}
	}
	return append(origins, devOrigins...)
}
