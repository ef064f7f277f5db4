package core

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the production logger, writing to config.LogFile when set.
func NewLogger(config GeneralConfig) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if config.LogLevel != "" {
		level, err := zapcore.ParseLevel(config.LogLevel)
		if err != nil {
			return nil, err
		}
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}
	if config.LogFile != "" {
		zapConfig.OutputPaths = []string{config.LogFile}
		zapConfig.ErrorOutputPaths = []string{config.LogFile}
	}
	return zapConfig.Build()
}
