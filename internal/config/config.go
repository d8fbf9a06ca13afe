// Package config provides functionality for managing configuration options
// for the application using command-line flags, a config file, a .env file
// and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends accepted by Options.Storage.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string

	// LogLevel is a zap level name.
	LogLevel string
	// LogFormat is "json" or "console".
	LogFormat string

	// Storage selects the record backend.
	Storage string
	// StoragePath is the JSON file used by the file backend.
	StoragePath string
	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string
	// RedisAddr is the host:port of the Redis server.
	RedisAddr string
	// StorageKey is the single key the last record is kept under.
	StorageKey string

	// SubmitDelay is the simulated latency of account creation.
	SubmitDelay time.Duration
	// SessionTTL is how long an idle form session is kept.
	SessionTTL time.Duration
	// DefaultLanguage is used when the browser expresses no preference.
	DefaultLanguage string

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string
	TLSKey  string

	// Config is the path to the config file (JSON or YAML).
	Config string
}

// fileOptions mirrors Options for config files; nil fields are left alone.
type fileOptions struct {
	Address         *string `json:"address" yaml:"address"`
	LogLevel        *string `json:"log_level" yaml:"log_level"`
	LogFormat       *string `json:"log_format" yaml:"log_format"`
	Storage         *string `json:"storage" yaml:"storage"`
	StoragePath     *string `json:"storage_path" yaml:"storage_path"`
	DatabaseDSN     *string `json:"database_dsn" yaml:"database_dsn"`
	RedisAddr       *string `json:"redis_addr" yaml:"redis_addr"`
	StorageKey      *string `json:"storage_key" yaml:"storage_key"`
	SubmitDelay     *string `json:"submit_delay" yaml:"submit_delay"`
	SessionTTL      *string `json:"session_ttl" yaml:"session_ttl"`
	DefaultLanguage *string `json:"default_language" yaml:"default_language"`
	TLSCert         *string `json:"tls_cert" yaml:"tls_cert"`
	TLSKey          *string `json:"tls_key" yaml:"tls_key"`
}

// Default returns the built-in configuration.
func Default() *Options {
	return &Options{
		Address:         "localhost:8080",
		LogLevel:        "info",
		LogFormat:       "json",
		Storage:         StorageMemory,
		StoragePath:     "storage.json",
		StorageKey:      "userData",
		SubmitDelay:     time.Second,
		SessionTTL:      30 * time.Minute,
		DefaultLanguage: "en",
		Config:          "config.json",
	}
}

// Parse builds Options from defaults, the config file, explicitly passed
// flags and environment variables, in that order of precedence. A .env file
// in the working directory is loaded into the environment first.
func Parse(args []string) (*Options, error) {
	_ = godotenv.Load()

	options := Default()

	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.StringVar(&options.Address, "a", options.Address, "run on ip:port server")
	fs.StringVar(&options.LogLevel, "l", options.LogLevel, "log level")
	fs.StringVar(&options.LogFormat, "log-format", options.LogFormat, "log format: json | console")
	fs.StringVar(&options.Storage, "s", options.Storage, "storage backend: memory | file | postgres | redis")
	fs.StringVar(&options.StoragePath, "storage-path", options.StoragePath, "file backend path")
	fs.StringVar(&options.DatabaseDSN, "d", options.DatabaseDSN, "db address")
	fs.StringVar(&options.RedisAddr, "redis", options.RedisAddr, "redis address")
	fs.StringVar(&options.StorageKey, "key", options.StorageKey, "storage key of the last record")
	fs.DurationVar(&options.SubmitDelay, "delay", options.SubmitDelay, "simulated account creation latency")
	fs.DurationVar(&options.SessionTTL, "session-ttl", options.SessionTTL, "idle form session lifetime")
	fs.StringVar(&options.DefaultLanguage, "lang", options.DefaultLanguage, "default language: en | tr")
	fs.StringVar(&options.TLSCert, "tls-cert", options.TLSCert, "TLS certificate file")
	fs.StringVar(&options.TLSKey, "tls-key", options.TLSKey, "TLS key file")
	fs.StringVar(&options.Config, "config", options.Config, "path to config file")
	fs.StringVar(&options.Config, "c", options.Config, "path to config file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Flags given on the command line win over the file.
	explicit := make(map[string]string)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = f.Value.String() })

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}
	if err := options.loadFile(); err != nil {
		return nil, err
	}
	for name, value := range explicit {
		_ = fs.Set(name, value)
	}

	if err := options.loadEnv(); err != nil {
		return nil, err
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}

func (o *Options) loadFile() error {
	if o.Config == "" {
		return nil
	}
	data, err := os.ReadFile(o.Config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error while reading config file: %w", err)
	}

	var fo fileOptions
	switch strings.ToLower(filepath.Ext(o.Config)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fo)
	default:
		err = json.Unmarshal(data, &fo)
	}
	if err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return o.apply(fo)
}

func (o *Options) loadEnv() error {
	lookup := func(key string) *string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return &v
		}
		return nil
	}
	return o.apply(fileOptions{
		Address:         lookup("SERVER_ADDRESS"),
		LogLevel:        lookup("LOG_LEVEL"),
		LogFormat:       lookup("LOG_FORMAT"),
		Storage:         lookup("STORAGE"),
		StoragePath:     lookup("STORAGE_PATH"),
		DatabaseDSN:     lookup("DATABASE_DSN"),
		RedisAddr:       lookup("REDIS_ADDR"),
		StorageKey:      lookup("STORAGE_KEY"),
		SubmitDelay:     lookup("SUBMIT_DELAY"),
		SessionTTL:      lookup("SESSION_TTL"),
		DefaultLanguage: lookup("DEFAULT_LANGUAGE"),
		TLSCert:         lookup("TLS_CERT"),
		TLSKey:          lookup("TLS_KEY"),
	})
}

func (o *Options) apply(fo fileOptions) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&o.Address, fo.Address)
	set(&o.LogLevel, fo.LogLevel)
	set(&o.LogFormat, fo.LogFormat)
	set(&o.Storage, fo.Storage)
	set(&o.StoragePath, fo.StoragePath)
	set(&o.DatabaseDSN, fo.DatabaseDSN)
	set(&o.RedisAddr, fo.RedisAddr)
	set(&o.StorageKey, fo.StorageKey)
	set(&o.DefaultLanguage, fo.DefaultLanguage)
	set(&o.TLSCert, fo.TLSCert)
	set(&o.TLSKey, fo.TLSKey)

	if fo.SubmitDelay != nil {
		d, err := time.ParseDuration(*fo.SubmitDelay)
		if err != nil {
			return fmt.Errorf("submit delay: %w", err)
		}
		o.SubmitDelay = d
	}
	if fo.SessionTTL != nil {
		d, err := time.ParseDuration(*fo.SessionTTL)
		if err != nil {
			return fmt.Errorf("session ttl: %w", err)
		}
		o.SessionTTL = d
	}
	return nil
}

// Validate reports inconsistent settings.
func (o *Options) Validate() error {
	switch o.Storage {
	case StorageMemory:
	case StorageFile:
		if o.StoragePath == "" {
			return errors.New("file storage requires a storage path")
		}
	case StoragePostgres:
		if o.DatabaseDSN == "" {
			return errors.New("postgres storage requires a database DSN")
		}
	case StorageRedis:
		if o.RedisAddr == "" {
			return errors.New("redis storage requires a redis address")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", o.Storage)
	}

	if o.StorageKey == "" {
		return errors.New("storage key must not be empty")
	}
	if o.SubmitDelay < 0 {
		return errors.New("submit delay must not be negative")
	}
	if o.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if (o.TLSCert == "") != (o.TLSKey == "") {
		return errors.New("tls cert and key must be set together")
	}
	return nil
}
