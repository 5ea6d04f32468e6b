package config

import "time"

// Config is the apolog configuration as read from .apolog/config.yaml.
type Config struct {
	// Features lists glob patterns of Gherkin files to load.
	Features []string `yaml:"features"`
	// History is the path of the run history database. HistoryOff, or an
	// explicit empty value in the file, disables history recording.
	History     string        `yaml:"history"`
	LogLevel    string        `yaml:"log_level"`
	StepTimeout time.Duration `yaml:"step_timeout"`
}
