package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/gestiondocente/internal/logger"
)

const (
	defaultListenAddr     = "localhost:8000"
	defaultLoggingLevel   = logger.LevelInfo
	defaultAPIURL         = "http://localhost:8080"
	defaultEnvironment    = logger.EnvProduction
	defaultTokenStore     = StoreFile
	defaultTokenFile      = ".gestiondocente-tokens"
	defaultRequestTimeout = 10 * time.Second
)

// Token store kinds
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the gateway will be run
	ListenAddr string

	// Academic backend base URL, like 'http://localhost:8080'
	APIURL string

	// Environment
	Environment string

	// Where the session tokens are kept: file, postgres, redis or memory
	TokenStore string

	// Token file path. Used with 'file' store only
	TokenFile string

	// Database to connect to. Used with 'postgres' store only
	DatabaseDSN string

	// Redis address. Used with 'redis' store only
	RedisAddr string

	// Timeout of a single backend call
	RequestTimeout time.Duration
}

func NewConfig() *Config {
	return &Config{
		LogLevel:       defaultLoggingLevel,
		ListenAddr:     defaultListenAddr,
		APIURL:         defaultAPIURL,
		Environment:    defaultEnvironment,
		TokenStore:     defaultTokenStore,
		TokenFile:      defaultTokenFile,
		RequestTimeout: defaultRequestTimeout,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			*o = d
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":     setString(&c.ListenAddr),
		"API_URL":         setString(&c.APIURL),
		"LOG_LEVEL":       setString(&c.LogLevel),
		"ENVIRONMENT":     setString(&c.Environment),
		"TOKEN_STORE":     setString(&c.TokenStore),
		"TOKEN_FILE":      setString(&c.TokenFile),
		"DATABASE_URI":    setString(&c.DatabaseDSN),
		"REDIS_ADDRESS":   setString(&c.RedisAddr),
		"REQUEST_TIMEOUT": setDuration(&c.RequestTimeout),
	}

	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("gestiondocente", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.APIURL, "api-url", "u", c.APIURL, "Academic backend base URL")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringVarP(&c.TokenStore, "token-store", "t", c.TokenStore, "Token store (file, postgres, redis, memory)")
	fs.StringVarP(&c.TokenFile, "token-file", "f", c.TokenFile, "Token file path")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.RedisAddr, "redis", "r", c.RedisAddr, "Redis address")
	fs.DurationVarP(&c.RequestTimeout, "request-timeout", "T", c.RequestTimeout, "Backend request timeout")

	return fs.Parse(args)
}

// Validate reports options that can't work together
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("backend url is required")
	}

	switch c.TokenStore {
	case StoreFile:
		if c.TokenFile == "" {
			return errors.New("token file is required for 'file' store")
		}
	case StorePostgres:
		if c.DatabaseDSN == "" {
			return errors.New("database is required for 'postgres' store")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return errors.New("redis address is required for 'redis' store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown token store '%s'", c.TokenStore)
	}

	return nil
}
