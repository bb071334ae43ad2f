package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Auth     AuthConfig
	AI       AIConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level string
}

// Auth modes understood by the server.
const (
	AuthModeJWT     = "jwt"
	AuthModeSession = "session"
)

// AuthConfig holds the shared password and how authenticated state is carried.
type AuthConfig struct {
	Mode         string
	Password     string
	PasswordHash string
	JWTSecret    string
	Session      SessionConfig
}

// SessionConfig controls the authentication cookie.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// AIConfig configures the generative-text endpoint used for suggestions.
type AIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	Language    string
}

// Load inspects the environment and builds a Config value.
func Load() (Config, error) {
	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			":8080",
		),
	}

	cfg.Database = LoadDatabase()

	cfg.Logging = LoggingConfig{
		Level: firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
	}

	cfg.Auth = AuthConfig{
		Mode:         strings.ToLower(firstNonEmpty(os.Getenv("AUTH_MODE"), AuthModeJWT)),
		Password:     os.Getenv("AUTH_PASSWORD"),
		PasswordHash: strings.TrimSpace(os.Getenv("AUTH_PASSWORD_HASH")),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		Session: SessionConfig{
			Lifetime:     parseDurationWithDefault(os.Getenv("SESSION_LIFETIME"), 0),
			CookieName:   strings.TrimSpace(os.Getenv("SESSION_COOKIE_NAME")),
			CookieDomain: strings.TrimSpace(os.Getenv("SESSION_COOKIE_DOMAIN")),
			CookieSecure: parseBoolWithDefault(os.Getenv("SESSION_COOKIE_SECURE"), true),
		},
	}

	cfg.AI = AIConfig{
		APIKey: firstNonEmpty(
			os.Getenv("GEMINI_API_KEY"),
			os.Getenv("AI_API_KEY"),
			os.Getenv("OPENAI_API_KEY"),
		),
		Model:       strings.TrimSpace(os.Getenv("AI_MODEL")),
		BaseURL:     strings.TrimSpace(os.Getenv("AI_BASE_URL")),
		Timeout:     parseDurationWithDefault(os.Getenv("AI_TIMEOUT"), 60*time.Second),
		Temperature: parseFloatWithDefault(os.Getenv("AI_TEMPERATURE"), 0),
		Language:    firstNonEmpty(os.Getenv("SUGGESTION_LANGUAGE"), "German"),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}

	if err := cfg.Auth.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings. Tools that do not serve
// HTTP use it to avoid the authentication requirements of Load.
func LoadDatabase() DatabaseConfig {
	return DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			"",
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), 0),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), 0),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), 0),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), 0),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), false),
	}
}

func (a AuthConfig) validate() error {
	switch a.Mode {
	case AuthModeJWT:
		if strings.TrimSpace(a.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set when AUTH_MODE is %q", AuthModeJWT)
		}
	case AuthModeSession:
	default:
		return fmt.Errorf("unknown auth mode: %s", a.Mode)
	}
	if a.Password == "" && a.PasswordHash == "" {
		return fmt.Errorf("AUTH_PASSWORD or AUTH_PASSWORD_HASH must be set")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseFloatWithDefault(value string, def float64) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
