package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSecretKeyLength = 32

var (
	ErrSecretKeyMissing  = errors.New("SECRET_KEY is required")
	ErrSecretKeyInsecure = errors.New("SECRET_KEY uses a placeholder value")
	ErrSecretKeyTooShort = fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	ErrInvalidPort       = errors.New("PORT must be a number between 1 and 65535")
)

var placeholderSecrets = []string{
	"change_me_in_production",
	"replace_with_at_least_32_random_characters",
}

// Config is the resolved runtime configuration for every command. InvalidTZ
// holds a rejected TZ value when Location fell back to UTC.
type Config struct {
	Port             string
	DBPath           string
	SecretKey        string
	Location         *time.Location
	InvalidTZ        string
	LogLevel         string
	LogsFolder       string
	RecomputeWorkers int
}

// Load reads an optional .env from the working directory, then the
// environment. The secret key is only validated when requireSecret is set,
// so offline commands can run without one.
func Load(requireSecret bool) (*Config, error) {
	_ = godotenv.Load()

	port, err := resolvePort()
	if err != nil {
		return nil, err
	}

	zoneName := getEnv("TZ", "UTC")
	location, ok := loadLocation(zoneName)
	cfg := &Config{
		Port:             port,
		DBPath:           getEnv("DB_PATH", filepath.Join("data", "ovumcy.db")),
		Location:         location,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogsFolder:       getEnv("LOGS_FOLDER", "logs"),
		RecomputeWorkers: getEnvInt("RECOMPUTE_WORKERS", runtime.NumCPU()),
	}
	if !ok {
		cfg.InvalidTZ = zoneName
	}
	if cfg.RecomputeWorkers < 1 {
		cfg.RecomputeWorkers = 1
	}

	if requireSecret {
		secret, err := ResolveSecretKey()
		if err != nil {
			return nil, err
		}
		cfg.SecretKey = secret
	}
	return cfg, nil
}

func ResolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	switch {
	case secret == "":
		return "", ErrSecretKeyMissing
	case isPlaceholderSecret(secret):
		return "", ErrSecretKeyInsecure
	case len(secret) < minSecretKeyLength:
		return "", ErrSecretKeyTooShort
	}
	return secret, nil
}

func resolvePort() (string, error) {
	raw := getEnv("PORT", "8080")
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPort, raw)
	}
	return strconv.Itoa(port), nil
}

func isPlaceholderSecret(secret string) bool {
	for _, placeholder := range placeholderSecrets {
		if strings.EqualFold(secret, placeholder) {
			return true
		}
	}
	return false
}

// loadLocation falls back to UTC for an unknown zone name.
func loadLocation(name string) (*time.Location, bool) {
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, false
	}
	return location, true
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}
