package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Import   ImportConfig
	Offer    OfferConfig
}

type AppConfig struct {
	Name        string
	Environment string
}

// DatabaseConfig selects and configures the catalog store backend.
// Driver is "sqlite" (single file, the default) or "postgres" (shared store).
type DatabaseConfig struct {
	Driver          string
	Path            string // sqlite database file
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	// BusyTimeoutMS is the sqlite lock acquisition timeout per attempt
	BusyTimeoutMS int
	// RetryAttempts / RetryBackoffMS bound the retry loop around idempotent
	// writes when another process holds the store locked
	RetryAttempts  int
	RetryBackoffMS int
}

type LoggingConfig struct {
	Level  string
	Format string
}

// ImportConfig holds defaults applied to batch-imported rows
type ImportConfig struct {
	DefaultVATRate float64
	DefaultUnit    string
}

// OfferConfig holds offer composition defaults
type OfferConfig struct {
	DefaultTitle       string
	UncategorizedLabel string
}

// ConnectionString builds the DSN for the configured driver
func (d *DatabaseConfig) ConnectionString() string {
	if d.Driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
		)
	}
	// _busy_timeout makes sqlite wait for a contended lock instead of
	// failing immediately; bounded retries in the repository layer sit on top
	return fmt.Sprintf("%s?_busy_timeout=%d&_foreign_keys=on", d.Path, d.BusyTimeoutMS)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// RetryBackoff returns the backoff between write retries as duration
func (d *DatabaseConfig) RetryBackoff() time.Duration {
	return time.Duration(d.RetryBackoffMS) * time.Millisecond
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from config file
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Driver != "sqlite" && cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Offermat")
	v.SetDefault("app.environment", "development")

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "offermat.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "offermat")
	v.SetDefault("database.user", "offermat_user")
	v.SetDefault("database.password", "offermat_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 5)
	v.SetDefault("database.maxIdleConns", 2)
	v.SetDefault("database.connMaxLifetime", 300)
	v.SetDefault("database.busyTimeoutMS", 100)
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryBackoffMS", 100)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Import defaults
	v.SetDefault("import.defaultVATRate", 23.0)
	v.SetDefault("import.defaultUnit", "pcs")

	// Offer defaults
	v.SetDefault("offer.defaultTitle", "Commercial offer")
	v.SetDefault("offer.uncategorizedLabel", "Uncategorized")
}
