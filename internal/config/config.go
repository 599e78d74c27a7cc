// Package config reads the server's YAML configuration and watches it
// for changes so the log level can be adjusted without a restart.
package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Config is the server configuration.
type Config struct {
	Server struct {
		Port            string `yaml:"port"`
		ReadTimeoutSec  int    `yaml:"readTimeoutSec"`
		WriteTimeoutSec int    `yaml:"writeTimeoutSec"`
		ShutdownSec     int    `yaml:"shutdownSec"`
	} `yaml:"server"`

	Storage struct {
		// Path is the SQLite database file backing the row store.
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Auth struct {
		// JWTSecret falls back to the JWT_SECRET env var when empty, so
		// the secret can stay out of the config file.
		JWTSecret        string `yaml:"jwtSecret"`
		TokenDurationHrs int    `yaml:"tokenDurationHrs"`
	} `yaml:"auth"`

	Cache struct {
		MaxEntries int `yaml:"maxEntries"`
		TTLSec     int `yaml:"ttlSec"`
	} `yaml:"cache"`

	LogLevel string `yaml:"logLevel"`
}

// TokenDuration returns the session lifetime.
func (c *Config) TokenDuration() time.Duration {
	return time.Duration(c.Auth.TokenDurationHrs) * time.Hour
}

// CacheTTL returns the cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSec) * time.Second
}

// Loader reads the YAML config file and watches it for changes.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  *Config
	onChange []func(*Config)
	watcher  *fsnotify.Watcher
}

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = cfg
	return l, nil
}

// Config returns the current (latest) configuration.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the config reloads.
func (l *Loader) OnChange(fn func(*Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that hot-reloads the config on
// file changes. Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher add %s: %w", l.path, err)
	}
	l.watcher = w

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					cfg, err := l.load()
					if err != nil {
						// Keep serving the old config.
						continue
					}
					l.mu.Lock()
					l.current = cfg
					callbacks := make([]func(*Config), len(l.onChange))
					copy(callbacks, l.onChange)
					l.mu.Unlock()
					for _, fn := range callbacks {
						fn(cfg)
					}
				}
			case <-w.Errors:
				// Ignore watcher errors.
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}

func (l *Loader) load() (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", l.path, err)
		}
		// No config file: run entirely on defaults and env.
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", l.path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = envOr("PORT", "8080")
	}
	if cfg.Server.ReadTimeoutSec == 0 {
		cfg.Server.ReadTimeoutSec = 15
	}
	if cfg.Server.WriteTimeoutSec == 0 {
		cfg.Server.WriteTimeoutSec = 15
	}
	if cfg.Server.ShutdownSec == 0 {
		cfg.Server.ShutdownSec = 10
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = envOr("DB_PATH", "treasury.db")
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.Auth.TokenDurationHrs == 0 {
		cfg.Auth.TokenDurationHrs = 24
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 256
	}
	if cfg.Cache.TTLSec == 0 {
		cfg.Cache.TTLSec = 300
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = envOr("LOG_LEVEL", "info")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
