package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"applianceassist/internal/logger"

	"github.com/spf13/viper"
)

// Config is kept comparable so the app can detect an uninitialised value.
type Config struct {
	GeneralVersion string `mapstructure:"GENERAL_VERSION"`
	Environment    string `mapstructure:"ENVIRONMENT"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	ServerPort     int    `mapstructure:"SERVER_PORT"`

	DatabaseDbPath       string `mapstructure:"DATABASE_DB_PATH"`
	DatabaseCacheEnabled bool   `mapstructure:"DATABASE_CACHE_ENABLED"`
	DatabaseCacheAddress string `mapstructure:"DATABASE_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DATABASE_CACHE_PORT"`

	SessionCookieName    string `mapstructure:"SESSION_COOKIE_NAME"`
	SessionMaxAgeSeconds int    `mapstructure:"SESSION_MAX_AGE_SECONDS"`

	// Demonstration credentials. ADMIN_PASSWORD_HASH (bcrypt) wins over
	// ADMIN_PASSWORD when set.
	AdminEmail        string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword     string `mapstructure:"ADMIN_PASSWORD"`
	AdminPasswordHash string `mapstructure:"ADMIN_PASSWORD_HASH"`

	DiagnosisProvider       string `mapstructure:"DIAGNOSIS_PROVIDER"`
	DiagnosisTimeoutSeconds int    `mapstructure:"DIAGNOSIS_TIMEOUT_SECONDS"`
	GeminiAPIKey            string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel             string `mapstructure:"GEMINI_MODEL"`
	OpenAIAPIKey            string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL           string `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel             string `mapstructure:"OPENAI_MODEL"`

	// Comma separated ZIP codes or city names.
	ServiceAreas string `mapstructure:"SERVICE_AREAS"`
}

var defaults = map[string]any{
	"GENERAL_VERSION":           "dev",
	"ENVIRONMENT":               "development",
	"LOG_LEVEL":                 "info",
	"SERVER_PORT":               8288,
	"DATABASE_DB_PATH":          "data/applianceassist.db",
	"DATABASE_CACHE_ENABLED":    false,
	"DATABASE_CACHE_ADDRESS":    "localhost",
	"DATABASE_CACHE_PORT":       6379,
	"SESSION_COOKIE_NAME":       "admin_session",
	"SESSION_MAX_AGE_SECONDS":   60 * 60 * 24 * 7,
	"ADMIN_EMAIL":               "admin@example.com",
	"ADMIN_PASSWORD":            "securepassword123",
	"ADMIN_PASSWORD_HASH":       "",
	"DIAGNOSIS_PROVIDER":        "gemini",
	"DIAGNOSIS_TIMEOUT_SECONDS": 30,
	"GEMINI_API_KEY":            "",
	"GEMINI_MODEL":              "gemini-2.0-flash",
	"OPENAI_API_KEY":            "",
	"OPENAI_BASE_URL":           "",
	"OPENAI_MODEL":              "gpt-4o-mini",
	"SERVICE_AREAS":             "10001,90210,60601,anytown,springfield,new york",
}

func InitConfig() (Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, dir string) (Config, error) {
	log := logger.New("config").Function("InitConfig")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, log.Err("failed to read config file", err, "file", envFile)
		}
	} else {
		log.Debug("no .env file found, using defaults and environment", "dir", dir)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("failed to unmarshal config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, log.Err("invalid config", err)
	}

	logger.SetLevel(config.LogLevel)
	return config, nil
}

func (c Config) Validate() error {
	if c.ServerPort <= 0 {
		return errors.New("SERVER_PORT must be positive")
	}
	if strings.TrimSpace(c.SessionCookieName) == "" {
		return errors.New("SESSION_COOKIE_NAME is empty")
	}
	if c.SessionMaxAgeSeconds <= 0 {
		return errors.New("SESSION_MAX_AGE_SECONDS must be positive")
	}
	if c.AdminEmail == "" || (c.AdminPassword == "" && c.AdminPasswordHash == "") {
		return errors.New("admin credentials are not configured")
	}
	switch c.DiagnosisProvider {
	case "gemini", "openai":
	default:
		return errors.New("DIAGNOSIS_PROVIDER must be gemini or openai")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Areas splits ServiceAreas into lower-cased, trimmed, non-empty entries.
func (c Config) Areas() []string {
	var areas []string
	for _, area := range strings.Split(c.ServiceAreas, ",") {
		area = strings.ToLower(strings.TrimSpace(area))
		if area != "" {
			areas = append(areas, area)
		}
	}
	return areas
}
