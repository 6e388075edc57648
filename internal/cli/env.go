package cli

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

// Environment variables providing flag defaults.
const (
	envFile            = "GRAPHC_ENV_FILE"
	envLogLevel        = "GRAPHC_LOG_LEVEL"
	envLogFormat       = "GRAPHC_LOG_FORMAT"
	envRedisURL        = "GRAPHC_REDIS_URL"
	envCacheTTL        = "GRAPHC_CACHE_TTL"
	envCacheSize       = "GRAPHC_CACHE_SIZE"
	envHubURL          = "GRAPHC_HUB_URL"
	envHubNamespace    = "GRAPHC_HUB_NAMESPACE"
	envHealthcheckPort = "GRAPHC_HEALTHCHECK_PORT"
)

// loadDotEnv loads variables from the .env file (or GRAPHC_ENV_FILE) without
// overriding variables already set. A missing file is not an error.
func loadDotEnv() error {
	path := os.Getenv(envFile)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

// defaultLogFormat is text when w is a terminal and json otherwise.
func defaultLogFormat(w io.Writer) string {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "text"
	}
	return "json"
}
