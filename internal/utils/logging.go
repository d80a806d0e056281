package utils

import (
	"sync"

	"go.uber.org/zap"
)

var (
	Logger     *zap.Logger
	loggerOnce sync.Once
)

func InitLogger() {
	var err error
	Logger, err = zap.NewProduction()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
}

// GetLogger returns the process-wide logger for code without an injected one
func GetLogger() *zap.Logger {
	loggerOnce.Do(func() {
		if Logger == nil {
			InitLogger()
		}
	})
	return Logger
}
