package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Generator GeneratorConfig
	User      UserServiceConfig
}

type ServerConfig struct {
	HTTPPort string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host       string
	Port       string
	Password   string
	DB         int
	ProfileTTL int // seconds
}

type AuthConfig struct {
	JWTSecret string
}

type GeneratorConfig struct {
	APIURL string
	APIKey string
	Model  string
}

type UserServiceConfig struct {
	BaseURL string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: getEnv("HTTP_PORT", "8080"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "postgres"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "arena"),
			Password: getEnv("DB_PASSWORD", "arena_password"),
			DBName:   getEnv("DB_NAME", "arena"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:       getEnv("REDIS_HOST", "redis"),
			Port:       getEnv("REDIS_PORT", "6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			ProfileTTL: getEnvAsInt("PROFILE_CACHE_TTL", 300),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
		},
		Generator: GeneratorConfig{
			APIURL: getEnv("GENERATOR_API_URL", "https://api.openai.com/v1"),
			APIKey: getEnv("GENERATOR_API_KEY", ""),
			Model:  getEnv("GENERATOR_MODEL", "gpt-4o-mini"),
		},
		User: UserServiceConfig{
			BaseURL: getEnv("USER_SERVICE_URL", "http://user-service:8080"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
