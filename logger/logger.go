package logger

import "go.uber.org/zap"

func New() *zap.Logger {
	log, err := zap.NewProduction()
	if err != nil {
		// zap only fails on a broken config; fall back to a no-op logger
		return zap.NewNop()
	}
	return log
}
