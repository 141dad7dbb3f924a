package observability_test

import "github.com/marcos-nsantos/presence-socket/internal/infrastructure/config"

func configLog(level, format string) config.LogConfig {
	return config.LogConfig{Level: level, Format: format}
}
