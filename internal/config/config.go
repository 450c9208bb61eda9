// Package config loads the TOML settings file and applies TODOLIST_*
// environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todolist.db"
	DefaultLogName        = "todolist.log"
	appDirName            = "todolist"
)

type Config struct {
	DBPath               string `toml:"db_path"`
	LogFile              string `toml:"log_file"`
	LogLevel             string `toml:"log_level"`
	LogFormat            string `toml:"log_format"`
	DesktopNotifications bool   `toml:"desktop_notifications"`
	SchedulerBuffer      int    `toml:"scheduler_buffer"`
	DefaultFilter        string `toml:"default_filter"`
}

func Default() Config {
	return Config{
		DBPath:               DefaultDBName,
		LogFile:              DefaultLogName,
		LogLevel:             "info",
		LogFormat:            "text",
		DesktopNotifications: true,
		SchedulerBuffer:      64,
		DefaultFilter:        "all",
	}
}

// ResolvePath returns TODOLIST_CONFIG when set, else the XDG config location,
// else ~/.config/todolist/config.toml.
func ResolvePath() (string, error) {
	if p := strings.TrimSpace(os.Getenv("TODOLIST_CONFIG")); p != "" {
		return p, nil
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, appDirName, DefaultConfigFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", appDirName, DefaultConfigFileName), nil
}

// LoadOrCreate reads path, writing the defaults there first when the file
// does not exist. Relative db and log paths resolve against the config dir.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = DefaultDBName
	}
	if strings.TrimSpace(cfg.LogFile) == "" {
		cfg.LogFile = DefaultLogName
	}
	if cfg.SchedulerBuffer <= 0 {
		cfg.SchedulerBuffer = Default().SchedulerBuffer
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c Config) resolve(dir string) Config {
	if c.DBPath != ":memory:" && !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if c.LogFile != "-" && !filepath.IsAbs(c.LogFile) {
		c.LogFile = filepath.Join(dir, c.LogFile)
	}
	return c
}

// FromEnv returns base with any TODOLIST_* variables applied.
func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("TODOLIST_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("TODOLIST_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v, ok := getEnvBool("TODOLIST_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("TODOLIST_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v := strings.TrimSpace(os.Getenv("TODOLIST_DEFAULT_FILTER")); v != "" {
		cfg.DefaultFilter = v
	}
	return cfg
}

// Load resolves the config path, loads or creates the file and applies
// environment overrides.
func Load() (Config, string, error) {
	path, err := ResolvePath()
	if err != nil {
		return FromEnv(Default()), "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return FromEnv(Default()), path, fmt.Errorf("config: create dir: %w", err)
	}
	cfg, err := LoadOrCreate(path)
	if err != nil {
		return FromEnv(cfg), path, err
	}
	return FromEnv(cfg), path, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
