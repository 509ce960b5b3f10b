// Package config reads run settings from the environment, with an optional
// .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrNoRefDir      = errors.New("config: REF_DIR is empty")
	ErrBadWorkers    = errors.New("config: WORKERS must be >= 1")
	ErrBadLoadChunk  = errors.New("config: LOAD_CHUNK must be >= 1")
	ErrBadDBTimeouts = errors.New("config: DB timeouts must be positive")
)

type Config struct {
	RefDir        string
	RulesPath     string
	OverridesPath string
	Workers       int

	MySQLHost      string
	MySQLPort      int
	MySQLUser      string
	MySQLPassword  string
	MySQLDB        string
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
	LockTimeout    time.Duration
	LoadChunk      int
}

func Load() (*Config, error) {
	_ = godotenv.Load() // optional

	cfg := &Config{
		RefDir:         getenv("REF_DIR", "./ref"),
		RulesPath:      getenv("RULES_PATH", ""),
		OverridesPath:  getenv("RECIPE_OVERRIDES", ""),
		Workers:        getenvInt("WORKERS", 4),
		MySQLHost:      getenv("MYSQL_HOST", "127.0.0.1"),
		MySQLPort:      getenvInt("MYSQL_PORT", 3306),
		MySQLUser:      getenv("MYSQL_USER", "root"),
		MySQLPassword:  getenv("MYSQL_PASSWORD", ""),
		MySQLDB:        getenv("MYSQL_DB", "cpdb"),
		ConnectTimeout: time.Duration(getenvInt("DB_CONNECT_TIMEOUT", 5)) * time.Second,
		QueryTimeout:   time.Duration(getenvInt("DB_QUERY_TIMEOUT", 30)) * time.Second,
		LockTimeout:    time.Duration(getenvInt("DB_LOCK_TIMEOUT", 10)) * time.Second,
		LoadChunk:      getenvInt("LOAD_CHUNK", 2000),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.RefDir == "" {
		return ErrNoRefDir
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: got %d", ErrBadWorkers, c.Workers)
	}
	if c.LoadChunk < 1 {
		return fmt.Errorf("%w: got %d", ErrBadLoadChunk, c.LoadChunk)
	}
	if c.ConnectTimeout <= 0 || c.QueryTimeout <= 0 || c.LockTimeout <= 0 {
		return ErrBadDBTimeouts
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
