// Package config loads menufeed settings from a YAML file, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nypl-labs/menufeed/internal/database"
	"github.com/nypl-labs/menufeed/internal/menufeed"
	"github.com/nypl-labs/menufeed/internal/pagination"
)

// ErrMissingCredentials means the database settings are incomplete. It is
// reported before any connection is attempted.
var ErrMissingCredentials = errors.New("missing database credentials")

// Environment variables that override the config file.
const (
	EnvDriver   = "MENUFEED_DB_DRIVER"
	EnvDSN      = "MENUFEED_DB_DSN"
	EnvHost     = "MENUFEED_DB_HOST"
	EnvUser     = "MENUFEED_DB_USER"
	EnvPassword = "MENUFEED_DB_PASSWORD"
	EnvName     = "MENUFEED_DB_NAME"
	EnvBaseURL  = "MENUFEED_BASE_URL"
	EnvPageSize = "MENUFEED_PAGE_SIZE"
	EnvAddr     = "MENUFEED_ADDR"
	EnvLogLevel = "MENUFEED_LOG_LEVEL"
	EnvLogFmt   = "MENUFEED_LOG_FORMAT"
)

// Config is the full application configuration.
type Config struct {
	Database Database `yaml:"database"`
	Feed     Feed     `yaml:"feed"`
	Server   Server   `yaml:"server"`
	Log      Log      `yaml:"log"`
}

// Database holds connection settings. Either DSN or the discrete
// credentials must be set; SQLite only needs DSN (a file path).
type Database struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Feed holds document settings.
type Feed struct {
	PageSize int    `yaml:"page_size"`
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	SiteURL  string `yaml:"site_url"`
	BaseURL  string `yaml:"base_url"`
}

// Server holds HTTP settings.
type Server struct {
	Addr string `yaml:"addr"`
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Database: Database{Driver: "sqlite"},
		Feed: Feed{
			PageSize: pagination.DefaultPageSize,
			Title:    menufeed.DefaultTitle,
			Author:   menufeed.DefaultAuthor,
			SiteURL:  menufeed.DefaultSiteURL,
			BaseURL:  "http://localhost:8080/feed",
		},
		Server: Server{Addr: ":8080"},
		Log:    Log{Level: "info", Format: "json"},
	}
}

// Load reads path (optional), a .env file in the working directory if one
// exists, and the environment, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Database.Driver, EnvDriver)
	set(&c.Database.DSN, EnvDSN)
	set(&c.Database.Host, EnvHost)
	set(&c.Database.User, EnvUser)
	set(&c.Database.Password, EnvPassword)
	set(&c.Database.Name, EnvName)
	set(&c.Feed.BaseURL, EnvBaseURL)
	set(&c.Server.Addr, EnvAddr)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Log.Format, EnvLogFmt)
	if v := getenv(EnvPageSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Feed.PageSize = n
		}
	}
}

// Validate checks that the database can be reached with the settings given.
func (c *Config) Validate() error {
	if c.Feed.PageSize < 1 {
		c.Feed.PageSize = pagination.DefaultPageSize
	}
	return c.Database.Validate()
}

// Validate reports ErrMissingCredentials naming every missing key.
func (d Database) Validate() error {
	if d.DSN != "" {
		return nil
	}
	switch strings.ToLower(d.Driver) {
	case "", "sqlite", "sqlite3":
		return fmt.Errorf("%w: dsn", ErrMissingCredentials)
	case "postgres", "postgresql", "mysql":
	default:
		return fmt.Errorf("%w: %q", database.ErrUnknownDriver, d.Driver)
	}

	var missing []string
	for _, kv := range []struct{ key, val string }{
		{"host", d.Host}, {"user", d.User}, {"password", d.Password}, {"name", d.Name},
	} {
		if kv.val == "" {
			missing = append(missing, kv.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// ConnString returns the DSN, assembling it from credentials if needed.
func (d Database) ConnString() string {
	if d.DSN != "" {
		return d.DSN
	}
	switch strings.ToLower(d.Driver) {
	case "postgres", "postgresql":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     d.Host,
			Path:     "/" + d.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	case "mysql":
		return database.MySQLDSN(d.User, d.Password, d.Host, d.Name)
	default:
		return ""
	}
}

// FeedOptions maps feed settings onto builder options.
func (c *Config) FeedOptions() menufeed.Options {
	return menufeed.Options{
		PageSize: c.Feed.PageSize,
		Title:    c.Feed.Title,
		Author:   c.Feed.Author,
		SiteURL:  c.Feed.SiteURL,
		FeedURL:  c.Feed.BaseURL,
	}
}
