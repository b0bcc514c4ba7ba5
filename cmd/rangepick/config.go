package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	minSecretKeyLength = 32
	defaultPickerTTL   = 24 * time.Hour
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type config struct {
	Port            string
	DBPath          string
	SecretKey       string
	Location        *time.Location
	DefaultLanguage string
	CookieSecure    bool
	PickerTTL       time.Duration
}

// loadDotEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env failed: %v", err)
	}
}

func loadConfig() (config, error) {
	secretKey, err := resolveSecretKey()
	if err != nil {
		return config{}, err
	}
	port, err := resolvePort()
	if err != nil {
		return config{}, err
	}
	ttl, err := resolvePickerTTL()
	if err != nil {
		return config{}, err
	}

	return config{
		Port:            port,
		DBPath:          resolveDBPath(),
		SecretKey:       secretKey,
		Location:        mustLoadLocation(getEnv("TZ", "UTC")),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		CookieSecure:    parseBoolEnv("COOKIE_SECURE", false),
		PickerTTL:       ttl,
	}, nil
}

func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[secret]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func resolvePort() (string, error) {
	raw := getEnv("PORT", "8080")
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return raw, nil
}

func resolvePickerTTL() (time.Duration, error) {
	return parsePickerTTL(os.Getenv("PICKER_TTL"))
}

func parsePickerTTL(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultPickerTTL, nil
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		return 0, fmt.Errorf("invalid PICKER_TTL %q", raw)
	}
	return ttl, nil
}

func resolveDBPath() string {
	return getEnv("DB_PATH", filepath.Join("data", "rangepick.db"))
}

func parseBoolEnv(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("invalid %s %q, using %t", key, raw, fallback)
		return fallback
	}
	return value
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
