package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	OMDbBase     string
	OMDbKey      string
	OMDbRPS      int
	IdentityBase string
	IdentityKey  string
	TokenTTL     time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/moviereview?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		OMDbBase:     env("OMDB_BASE_URL", "http://www.omdbapi.com/"),
		OMDbKey:      env("OMDB_API_KEY", ""),
		OMDbRPS:      atoi("OMDB_RPS", 5),
		IdentityBase: env("IDENTITY_BASE_URL", ""),
		IdentityKey:  env("IDENTITY_API_KEY", ""),
		TokenTTL:     time.Duration(atoi("TOKEN_CACHE_TTL_SECONDS", 300)) * time.Second,
	}
	if c.OMDbKey == "" {
		log.Warn().Msg("OMDB_API_KEY is empty")
	}
	if c.IdentityBase == "" {
		log.Warn().Msg("IDENTITY_BASE_URL is empty; authenticated routes will reject all tokens")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
