package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSAllowedOrigins []string

	// Codeforces public API settings. The minimum interval protects the
	// club's IP from the judge's own rate limits; keep it at or above 250ms.
	CFBaseURL          string
	CFMinInterval      time.Duration
	CFRequestTimeout   time.Duration
	CFSubmissionWindow int

	LeaderboardCacheTTL time.Duration
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort: getEnv("API_PORT", "8080"),
		JWTKey:  []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:  time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 720)) * time.Hour,

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "algoclub_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		CORSAllowedOrigins: []string{getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173")},

		CFBaseURL:          getEnv("CF_API_BASE_URL", "https://codeforces.com/api"),
		CFMinInterval:      time.Duration(getEnvAsInt("CF_MIN_INTERVAL_MS", 250)) * time.Millisecond,
		CFRequestTimeout:   time.Duration(getEnvAsInt("CF_REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
		CFSubmissionWindow: getEnvAsInt("CF_SUBMISSION_WINDOW", 500),

		LeaderboardCacheTTL: time.Duration(getEnvAsInt("LEADERBOARD_CACHE_TTL_SECONDS", 30)) * time.Second,
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
