package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the server settings
type Config struct {
	ListenAddr    string
	HTTPAddr      string
	Tick          time.Duration
	ActionTimeout time.Duration
	StartStake    int
	Blind         int
	Games         int
	MaxPlayers    int
	AuthSecret    string
	HistoryDSN    string
	CORSOrigins   []string
	LogLevel      logrus.Level
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		ListenAddr:    ":40888",
		HTTPAddr:      ":8080",
		Tick:          100 * time.Millisecond,
		ActionTimeout: 60 * time.Second,
		StartStake:    1500,
		Blind:         10,
		Games:         1,
		MaxPlayers:    3,
		AuthSecret:    "secret",
		CORSOrigins:   []string{"*"},
		LogLevel:      logrus.InfoLevel,
	}
}

// Load reads the optional .env files, then the environment
func Load(files ...string) (Config, error) {
	// a missing .env is fine
	_ = godotenv.Load(files...)
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, falling back to Default
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	var err error

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		v := strings.TrimSpace(getenv(key))
		if v == "" || err != nil {
			return
		}
		n, perr := strconv.Atoi(v)
		if perr != nil {
			err = fmt.Errorf("%s: %w", key, perr)
			return
		}
		*dst = n
	}
	dur := func(key string, dst *time.Duration) {
		v := strings.TrimSpace(getenv(key))
		if v == "" || err != nil {
			return
		}
		d, perr := time.ParseDuration(v)
		if perr != nil {
			err = fmt.Errorf("%s: %w", key, perr)
			return
		}
		*dst = d
	}

	str("NUTS_LISTEN", &cfg.ListenAddr)
	str("NUTS_HTTP", &cfg.HTTPAddr)
	dur("NUTS_TICK", &cfg.Tick)
	dur("NUTS_ACTION_TIMEOUT", &cfg.ActionTimeout)
	num("NUTS_START_STAKE", &cfg.StartStake)
	num("NUTS_BLIND", &cfg.Blind)
	num("NUTS_GAMES", &cfg.Games)
	num("NUTS_MAX_PLAYERS", &cfg.MaxPlayers)
	str("NUTS_AUTH_SECRET", &cfg.AuthSecret)
	str("NUTS_HISTORY_DSN", &cfg.HistoryDSN)

	if v := strings.TrimSpace(getenv("NUTS_CORS_ORIGINS")); v != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if v := strings.TrimSpace(getenv("LOG_LEVEL")); v != "" && err == nil {
		lvl, perr := logrus.ParseLevel(v)
		if perr != nil {
			err = fmt.Errorf("LOG_LEVEL: %w", perr)
		}
		cfg.LogLevel = lvl
	}

	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings the game engine depends on
func (c Config) Validate() error {
	switch {
	case c.Tick <= 0:
		return fmt.Errorf("tick must be positive, got %s", c.Tick)
	case c.ActionTimeout <= 0:
		return fmt.Errorf("action timeout must be positive, got %s", c.ActionTimeout)
	case c.StartStake <= 0:
		return fmt.Errorf("start stake must be positive, got %d", c.StartStake)
	case c.Blind <= 0:
		return fmt.Errorf("blind must be positive, got %d", c.Blind)
	case c.Games < 1:
		return fmt.Errorf("at least one game is required, got %d", c.Games)
	case c.MaxPlayers < 2 || c.MaxPlayers > 10:
		return fmt.Errorf("max players must be between 2 and 10, got %d", c.MaxPlayers)
	}
	return nil
}
