package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings pog reads at startup.
type Config struct {
	Port            int
	NoServer        bool
	MaxCachedChunks int
	LogDir          string
	LogLevel        string
	LogFormat       string
}

const (
	defaultConfigPath = "~/.config/pog/config.toml"
	defaultLogDir     = "~/.local/share/pog/logs"
	defaultPort       = 9876
	defaultMaxChunks  = 20
)

// Load locates and parses the pog config, falling back to defaults when
// the file is missing. A file that exists but does not parse is an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:            defaultPort,
		MaxCachedChunks: defaultMaxChunks,
		LogDir:          defaultLogDir,
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.LogDir = mustExpand(defaultLogDir)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Port            int    `toml:"port"`
		NoServer        bool   `toml:"no_server"`
		MaxCachedChunks int    `toml:"max_cached_chunks"`
		LogDir          string `toml:"log_dir"`
		LogLevel        string `toml:"log_level"`
		LogFormat       string `toml:"log_format"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.Port > 0 {
		cfg.Port = raw.Port
	}
	cfg.NoServer = raw.NoServer
	if raw.MaxCachedChunks > 0 {
		cfg.MaxCachedChunks = raw.MaxCachedChunks
	}
	if dir := strings.TrimSpace(raw.LogDir); dir != "" {
		cfg.LogDir = dir
	}
	cfg.LogDir = mustExpand(cfg.LogDir)
	cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	cfg.LogFormat = strings.TrimSpace(raw.LogFormat)

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
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
