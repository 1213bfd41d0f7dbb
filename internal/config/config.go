package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found")
	}
}

func GetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("environment variable %s is not set", key)
	}
	return value
}

func getEnvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

func getEnvIntDefault(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("environment variable %s is not a number: %v", key, err)
	}
	return n
}

// Postgres - параметры подключения к базе данных
type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Config собирается один раз в main и передается явно (никаких глобальных реестров)
type Config struct {
	Addr          string
	Env           string
	JWTSecret     string
	TokenTTL      time.Duration
	UploadDir     string
	UploadBaseURL string
	LoginRPS      int
	LoginBurst    int
	Postgres      Postgres
}

// Load читает конфигурацию из переменных окружения.
// JWT_SECRET обязателен, параметры Postgres читаются лениво в LoadPostgres
// (in-memory режим не требует базы данных)
func Load() *Config {
	return &Config{
		Addr:          getEnvDefault("HTTP_ADDR", ":8080"),
		Env:           getEnvDefault("APP_ENV", "production"),
		JWTSecret:     GetEnv("JWT_SECRET"),
		TokenTTL:      time.Duration(getEnvIntDefault("TOKEN_TTL_HOURS", 24)) * time.Hour,
		UploadDir:     getEnvDefault("UPLOAD_DIR", "uploads"),
		UploadBaseURL: getEnvDefault("UPLOAD_BASE_URL", "/uploads"),
		LoginRPS:      getEnvIntDefault("LOGIN_RPS", 5),
		LoginBurst:    getEnvIntDefault("LOGIN_BURST", 10),
	}
}

// LoadPostgres читает параметры базы данных (все обязательны)
func LoadPostgres() Postgres {
	return Postgres{
		Host:     GetEnv("DB_HOST"),
		Port:     GetEnv("DB_PORT"),
		User:     GetEnv("DB_USER"),
		Password: GetEnv("DB_PASSWORD"),
		Name:     GetEnv("DB_NAME"),
		SSLMode:  GetEnv("DB_SSLMODE"),
	}
}

// IsDevelopment - в development режиме внутренние ошибки отдаются клиенту как есть
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
