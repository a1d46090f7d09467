package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything walletsync reads from its config file.
type Config struct {
	AppName   string
	NetworkID uint64

	SyncInterval    time.Duration
	AddressInterval time.Duration // zero falls back to SyncInterval
	NetworkInterval time.Duration
	BalanceInterval time.Duration
	SyncBalance     bool

	LogLevel string
	LogFile  string

	MetricsAddr string

	Theme string
}

const (
	defaultConfigPath   = "~/.config/walletsync/config.toml"
	defaultAppName      = "walletsync"
	defaultSyncInterval = 200 * time.Millisecond
	defaultLogLevel     = "info"
)

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		AppName:      defaultAppName,
		SyncInterval: defaultSyncInterval,
		LogLevel:     defaultLogLevel,
	}
}

type rawConfig struct {
	App struct {
		Name      string `toml:"name"`
		NetworkID uint64 `toml:"network_id"`
	} `toml:"app"`
	Sync struct {
		IntervalMS        int  `toml:"interval_ms"`
		AddressIntervalMS int  `toml:"address_interval_ms"`
		NetworkIntervalMS int  `toml:"network_interval_ms"`
		BalanceIntervalMS int  `toml:"balance_interval_ms"`
		Balance           bool `toml:"balance"`
	} `toml:"sync"`
	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"log"`
	Metrics struct {
		Addr string `toml:"addr"`
	} `toml:"metrics"`
	UI struct {
		Theme string `toml:"theme"`
	} `toml:"ui"`
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if name := strings.TrimSpace(raw.App.Name); name != "" {
		cfg.AppName = name
	}
	cfg.NetworkID = raw.App.NetworkID

	if raw.Sync.IntervalMS > 0 {
		cfg.SyncInterval = millis(raw.Sync.IntervalMS)
	}
	cfg.AddressInterval = millis(raw.Sync.AddressIntervalMS)
	cfg.NetworkInterval = millis(raw.Sync.NetworkIntervalMS)
	cfg.BalanceInterval = millis(raw.Sync.BalanceIntervalMS)
	cfg.SyncBalance = raw.Sync.Balance

	if level := strings.TrimSpace(raw.Log.Level); level != "" {
		cfg.LogLevel = level
	}
	if logFile := strings.TrimSpace(raw.Log.File); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	cfg.MetricsAddr = strings.TrimSpace(raw.Metrics.Addr)
	cfg.Theme = strings.TrimSpace(raw.UI.Theme)

	return cfg, nil
}

// IntervalFor returns the poll cadence for slice.
func (c Config) IntervalFor(slice string) time.Duration {
	var every time.Duration
	switch slice {
	case "address":
		every = c.AddressInterval
	case "network":
		every = c.NetworkInterval
	case "balance":
		every = c.BalanceInterval
	}
	if every > 0 {
		return every
	}
	if c.SyncInterval > 0 {
		return c.SyncInterval
	}
	return defaultSyncInterval
}

func millis(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
