package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osGetwd = os.Getwd

const (
	ProjectConfigDir = ".apolog"
	configFileName   = "config.yaml"
)

// Load layers the project configuration over the defaults. A missing
// project file is not an error.
func Load() (Config, error) {
	cfg := Default()

	path, err := getProjectConfigPath()
	if err != nil {
		return Config{}, fmt.Errorf("determining project config path: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	overlay, err := LoadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loading project config from %s: %w", path, err)
	}
	return merge(cfg, overlay), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, ProjectConfigDir, configFileName), nil
}

// LoadFile reads a Config from a YAML file without applying defaults.
func LoadFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UnmarshalYAML reads a config file. An explicit empty or null history is
// kept as HistoryOff so it survives the merge over the defaults.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain Config
	if err := value.Decode((*plain)(c)); err != nil {
		return err
	}
	if value.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		v := value.Content[i+1]
		if value.Content[i].Value == "history" && (v.Value == "" || v.ShortTag() == "!!null") {
			c.History = HistoryOff
		}
	}
	return nil
}

// HistoryPath is the run history database, or "" when history is disabled.
func (c Config) HistoryPath() string {
	if c.History == HistoryOff {
		return ""
	}
	return c.History
}

// Write stores cfg as YAML at path.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ProjectPath is where Load looks for the project configuration.
func ProjectPath() (string, error) {
	return getProjectConfigPath()
}

func merge(base, overlay Config) Config {
	merged := base
	if len(overlay.Features) > 0 {
		merged.Features = overlay.Features
	}
	if overlay.History != "" {
		merged.History = overlay.History
	}
	if overlay.LogLevel != "" {
		merged.LogLevel = overlay.LogLevel
	}
	if overlay.StepTimeout > 0 {
		merged.StepTimeout = overlay.StepTimeout
	}
	return merged
}

// Level maps LogLevel to a slog level. Unknown names fall back to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
