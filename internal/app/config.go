package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/rolodex/pkg/jwtx"
	"github.com/aussiebroadwan/rolodex/pkg/slogx"
)

type Config struct {
	Secret string // Required: HMAC secret for token signing (min 32 bytes)
	Issuer string // Optional: issuer claim for tokens (default: rolodex)

	AccessTTL       time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL      time.Duration // Optional: refresh token lifetime (default: 7d)
	EmailConfirmTTL time.Duration // Optional: confirmation token lifetime (default: 24h)

	DatabaseFile  string // Optional: path to SQLite database file (default: ./rolodex.db)
	PepperFile    string // Optional: path to password-hashing pepper file (default: ./pepper)
	AvatarDir     string // Optional: directory avatar images are written to (default: ./avatars)
	PublicBaseURL string // Optional: public origin for confirmation links (default: http://localhost:8080)

	AllowedOrigins   []string // Optional: CORS origins (default: *)
	BannedIPs        []string // Optional: comma-separated IPs refused outright
	BannedUserAgents []string // Optional: comma-separated regexps refused outright

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Secret: os.Getenv("AUTH_SECRET"),
		Issuer: getEnvOrDefault("AUTH_ISSUER", "rolodex"),

		AccessTTL:       getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:      getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		EmailConfirmTTL: getEnvDurationOrDefault("AUTH_EMAIL_CONFIRM_TTL", jwtx.DefaultEmailConfirmTTL),

		DatabaseFile:  getEnvOrDefault("DATABASE_FILE", "rolodex.db"),
		PepperFile:    getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		AvatarDir:     getEnvOrDefault("AVATAR_DIR", "avatars"),
		PublicBaseURL: getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"),

		AllowedOrigins:   getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		BannedIPs:        getEnvListOrDefault("BANNED_IPS", nil),
		BannedUserAgents: getEnvListOrDefault("BANNED_USER_AGENTS", nil),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", slogx.FormatJSON),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
