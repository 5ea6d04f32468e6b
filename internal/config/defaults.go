package config

import "time"

const (
	DefaultHistoryPath = ".apolog/history.db"
	HistoryOff         = "off"
	DefaultStepTimeout = 2 * time.Second
)

func Default() Config {
	return Config{
		Features:    []string{"features/*.feature"},
		History:     DefaultHistoryPath,
		LogLevel:    "info",
		StepTimeout: DefaultStepTimeout,
	}
}
