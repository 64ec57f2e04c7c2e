// Package config loads mise settings. Later sources win: built-in defaults,
// the YAML config file, .env files, then environment variables. Command line
// flags are applied on top by cmd.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"mise/internal/db"
	"mise/internal/logger"
	"mise/internal/store"
)

// Store backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Environment string               `yaml:"environment"`
	Profile     string               `yaml:"profile"`
	Store       StoreConfig          `yaml:"store"`
	Database    store.PostgresConfig `yaml:"database"`
	Redis       RedisConfig          `yaml:"redis"`
	Shopping    ShoppingConfig       `yaml:"shopping"`
	Log         LogConfig            `yaml:"log"`
	Images      ImageConfig          `yaml:"images"`

	// Dir is the directory holding the database, prefs and log files.
	Dir string `yaml:"-"`
}

type StoreConfig struct {
	Backend string        `yaml:"backend"`
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ShoppingConfig struct {
	Layout      string `yaml:"layout"`
	DefaultList string `yaml:"default_list"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type ImageConfig struct {
	Enabled bool          `yaml:"enabled"`
	Width   int           `yaml:"width"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the built-in settings rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Environment: "development",
		Profile:     "default",
		Store: StoreConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join(dir, "mise.db"),
			Timeout: 10 * time.Second,
		},
		Database: store.PostgresConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			DBName:  "mise",
			SSLMode: "disable",
		},
		Shopping: ShoppingConfig{
			Layout:      db.LayoutLists,
			DefaultList: "Groceries",
		},
		Log: LogConfig{
			Level: "info",
			Path:  filepath.Join(dir, "mise.log"),
		},
		Images: ImageConfig{
			Enabled: true,
			Width:   48,
			Timeout: 5 * time.Second,
		},
		Dir: dir,
	}
}

// DefaultDir returns ~/.mise.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".mise"), nil
}

// Load builds the configuration for dir. file is the YAML config path; a
// missing file is not an error. envFiles are loaded with godotenv and never
// override variables already set in the environment.
func Load(dir, file string, envFiles ...string) (*Config, error) {
	cfg := Default(dir)

	if err := cfg.readFile(file); err != nil {
		return nil, err
	}

	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			logger.Warn("unable to load env file", zap.String("path", f), zap.Error(err))
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(file string) error {
	if file == "" {
		return nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("unable to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("unable to unmarshal YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Environment, "MISE_ENV")
	setString(&c.Profile, "MISE_PROFILE")
	setString(&c.Store.Backend, "MISE_STORE")
	setString(&c.Store.Path, "MISE_DB")
	setString(&c.Shopping.Layout, "MISE_SHOPPING_LAYOUT")
	setString(&c.Shopping.DefaultList, "MISE_DEFAULT_LIST")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Path, "LOG_OUTPUT")

	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		c.Redis.DB = n
	}
	if v := os.Getenv("MISE_STORE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid MISE_STORE_TIMEOUT %q: %w", v, err)
		}
		c.Store.Timeout = d
	}
	if v := os.Getenv("MISE_IMAGES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MISE_IMAGES %q: %w", v, err)
		}
		c.Images.Enabled = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	layout, err := db.ParseLayout(c.Shopping.Layout)
	if err != nil {
		return err
	}
	c.Shopping.Layout = layout
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store timeout must be positive")
	}
	return nil
}

// OpenStore opens the configured backend.
func (c *Config) OpenStore() (store.Store, error) {
	switch c.Store.Backend {
	case BackendPostgres:
		pg, err := store.OpenPostgres(c.Database)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case BackendMemory:
		return store.NewMemory(), nil
	default:
		if err := os.MkdirAll(filepath.Dir(c.Store.Path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		lite, err := store.OpenSQLite(c.Store.Path)
		if err != nil {
			return nil, err
		}
		return lite, nil
	}
}
