package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultTemplatesDir    = "templates"
	defaultPublicDir       = "public"
	defaultContentDir      = "content"
	defaultContentTTL      = 5 * time.Minute
	defaultSiteBaseURL     = "https://www.nouvie.co"
	defaultSiteName        = "Nouvie Colombia"
	defaultWhatsApp        = "573001234567"
	defaultPricingDriver   = DriverStatic
	defaultPricingTimeout  = 3 * time.Second
	defaultPricingFile     = "content/pricing.yaml"
	defaultDatabaseTable   = "products"
	defaultMaxOpenConns    = 5
	defaultMaxIdleConns    = 2
	defaultConnMaxLifetime = 30 * time.Minute
	defaultCollection      = "products"
	defaultLogLevel        = "info"
	defaultLogMaxSizeMB    = 50
	defaultLogMaxBackups   = 5
	defaultLogMaxAgeDays   = 14
)

// Pricing store drivers.
const (
	DriverStatic    = "static"
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Site      SiteConfig
	Pricing   PricingConfig
	Database  DatabaseConfig
	Firestore FirestoreConfig
	Logging   LoggingConfig
}

// ServerConfig configures HTTP server parameters and runtime asset locations.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	DevMode         bool
	TemplatesDir    string
	PublicDir       string
	ContentDir      string
	ContentTTL      time.Duration
}

// SiteConfig holds brand and contact data rendered on every page.
type SiteConfig struct {
	BaseURL   string
	Name      string
	WhatsApp  string
	Instagram string
	YouTube   string
	Facebook  string
}

// PricingConfig selects and tunes the pricing store.
type PricingConfig struct {
	Driver     string
	Timeout    time.Duration
	FuzzyMatch bool
	StaticFile string
}

// DatabaseConfig stores PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string
	Table           string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// FirestoreConfig stores database parameters.
type FirestoreConfig struct {
	ProjectID    string
	EmulatorHost string
	Collection   string
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.LookupEnv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, .env overrides, environment variables and
// explicit maps, in increasing order of precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	port := stringWithDefault(lookup, "WEB_PORT", "")
	if port == "" {
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            port,
			ReadTimeout:     durationWithDefault(lookup, "WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "WEB_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "WEB_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
			DevMode:         boolWithDefault(lookup, "WEB_DEV", false),
			TemplatesDir:    stringWithDefault(lookup, "WEB_TEMPLATES_DIR", defaultTemplatesDir),
			PublicDir:       stringWithDefault(lookup, "WEB_PUBLIC_DIR", defaultPublicDir),
			ContentDir:      stringWithDefault(lookup, "WEB_CONTENT_DIR", defaultContentDir),
			ContentTTL:      durationWithDefault(lookup, "WEB_CONTENT_TTL", defaultContentTTL),
		},
		Site: SiteConfig{
			BaseURL:   strings.TrimRight(stringWithDefault(lookup, "SITE_BASE_URL", defaultSiteBaseURL), "/"),
			Name:      stringWithDefault(lookup, "SITE_NAME", defaultSiteName),
			WhatsApp:  digitsOnly(stringWithDefault(lookup, "SITE_WHATSAPP", defaultWhatsApp)),
			Instagram: stringWithDefault(lookup, "SITE_INSTAGRAM", "https://www.instagram.com/nouvieofficial"),
			YouTube:   stringWithDefault(lookup, "SITE_YOUTUBE", "https://www.youtube.com/@NouVieColombia"),
			Facebook:  stringWithDefault(lookup, "SITE_FACEBOOK", "https://www.facebook.com/nouviecol"),
		},
		Pricing: PricingConfig{
			Driver:     strings.ToLower(stringWithDefault(lookup, "PRICING_DRIVER", defaultPricingDriver)),
			Timeout:    durationWithDefault(lookup, "PRICING_TIMEOUT", defaultPricingTimeout),
			FuzzyMatch: boolWithDefault(lookup, "PRICING_FUZZY_MATCH", true),
			StaticFile: stringWithDefault(lookup, "PRICING_STATIC_FILE", defaultPricingFile),
		},
		Database: DatabaseConfig{
			URL:             stringWithDefault(lookup, "DATABASE_URL", ""),
			Table:           stringWithDefault(lookup, "DATABASE_TABLE", defaultDatabaseTable),
			MaxOpenConns:    intWithDefault(lookup, "DATABASE_MAX_OPEN_CONNS", defaultMaxOpenConns),
			MaxIdleConns:    intWithDefault(lookup, "DATABASE_MAX_IDLE_CONNS", defaultMaxIdleConns),
			ConnMaxLifetime: durationWithDefault(lookup, "DATABASE_CONN_MAX_LIFETIME", defaultConnMaxLifetime),
		},
		Firestore: FirestoreConfig{
			ProjectID:    stringWithDefault(lookup, "FIRESTORE_PROJECT_ID", stringWithDefault(lookup, "GOOGLE_CLOUD_PROJECT", "")),
			EmulatorHost: stringWithDefault(lookup, "FIRESTORE_EMULATOR_HOST", ""),
			Collection:   stringWithDefault(lookup, "FIRESTORE_COLLECTION", defaultCollection),
		},
		Logging: LoggingConfig{
			Level:      strings.ToLower(stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)),
			File:       stringWithDefault(lookup, "LOG_FILE", ""),
			MaxSizeMB:  intWithDefault(lookup, "LOG_MAX_SIZE_MB", defaultLogMaxSizeMB),
			MaxBackups: intWithDefault(lookup, "LOG_MAX_BACKUPS", defaultLogMaxBackups),
			MaxAgeDays: intWithDefault(lookup, "LOG_MAX_AGE_DAYS", defaultLogMaxAgeDays),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return ":" + c.Port
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	} else if n, err := strconv.Atoi(cfg.Server.Port); err != nil || n <= 0 || n > 65535 {
		missing = append(missing, "Server.Port")
	}
	if cfg.Server.ReadTimeout <= 0 {
		missing = append(missing, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		missing = append(missing, "Server.WriteTimeout")
	}
	if cfg.Site.BaseURL == "" {
		missing = append(missing, "Site.BaseURL")
	}
	if cfg.Pricing.Timeout <= 0 {
		missing = append(missing, "Pricing.Timeout")
	}

	switch cfg.Pricing.Driver {
	case DriverStatic:
		if strings.TrimSpace(cfg.Pricing.StaticFile) == "" {
			missing = append(missing, "Pricing.StaticFile")
		}
	case DriverPostgres:
		if strings.TrimSpace(cfg.Database.URL) == "" {
			missing = append(missing, "Database.URL")
		}
		if strings.TrimSpace(cfg.Database.Table) == "" {
			missing = append(missing, "Database.Table")
		}
	case DriverFirestore:
		if strings.TrimSpace(cfg.Firestore.ProjectID) == "" {
			missing = append(missing, "Firestore.ProjectID")
		}
		if strings.TrimSpace(cfg.Firestore.Collection) == "" {
			missing = append(missing, "Firestore.Collection")
		}
	default:
		missing = append(missing, "Pricing.Driver")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	values, err := godotenv.Read(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
