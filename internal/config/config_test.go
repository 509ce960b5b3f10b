package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"REF_DIR", "WORKERS", "MYSQL_PORT", "DB_QUERY_TIMEOUT", "LOAD_CHUNK"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RefDir != "./ref" || cfg.Workers != 4 || cfg.MySQLPort != 3306 || cfg.LoadChunk != 2000 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.QueryTimeout != 30*time.Second {
		t.Errorf("QueryTimeout = %v", cfg.QueryTimeout)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("REF_DIR", "/data/ref")
	t.Setenv("WORKERS", "16")
	t.Setenv("MYSQL_PORT", "not a number")
	t.Setenv("DB_QUERY_TIMEOUT", "90")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RefDir != "/data/ref" || cfg.Workers != 16 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.MySQLPort != 3306 {
		t.Errorf("unparsable int should fall back to default, got %d", cfg.MySQLPort)
	}
	if cfg.QueryTimeout != 90*time.Second {
		t.Errorf("QueryTimeout = %v", cfg.QueryTimeout)
	}
}

func TestValidate(t *testing.T) {
	base := Config{RefDir: "ref", Workers: 1, LoadChunk: 1, ConnectTimeout: time.Second, QueryTimeout: time.Second, LockTimeout: time.Second}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"ok", func(*Config) {}, nil},
		{"no ref dir", func(c *Config) { c.RefDir = "" }, ErrNoRefDir},
		{"workers", func(c *Config) { c.Workers = 0 }, ErrBadWorkers},
		{"chunk", func(c *Config) { c.LoadChunk = -1 }, ErrBadLoadChunk},
		{"timeouts", func(c *Config) { c.QueryTimeout = 0 }, ErrBadDBTimeouts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
