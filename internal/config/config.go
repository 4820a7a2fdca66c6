// Package config carrega a configuração de ambiente (.env) e o arquivo YAML
// do pipeline. O YAML aceita ${VAR} para interpolar variáveis de ambiente.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	RedisURL     string
	MetricsPort  string
	WorkerCount  int
	FeedCacheTTL time.Duration
	LogFormat    string
}

func Load() *Config {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	// Se não encontrar, tenta no diretório atual
	_ = godotenv.Load()
	return &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		MetricsPort:  getEnv("METRICS_PORT", "9090"),
		WorkerCount:  getEnvInt("WORKER_COUNT", 4),
		FeedCacheTTL: getEnvDuration("FEED_CACHE_TTL", 6*time.Hour),
		LogFormat:    getEnv("LOG_FORMAT", "json"), // "json" ou "console"
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return d
	}
	return v
}

func getEnvDuration(k string, d time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return d
	}
	return v
}
