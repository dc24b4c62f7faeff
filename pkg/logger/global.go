package logger

import (
	"os"
	"sync"
)

var (
	globalLogger *Logger
	mu           sync.RWMutex
)

// GetLogger returns the global logger, creating a default one on first use.
// DEBUG=true or LOG_LEVEL override the default info level.
func GetLogger() *Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		level := "info"
		if os.Getenv("DEBUG") == "true" {
			level = "debug"
		} else if v := os.Getenv("LOG_LEVEL"); v != "" {
			level = v
		}
		globalLogger = New(Config{
			Level:  level,
			Format: "json",
			Output: "stderr",
		})
	}
	return globalLogger
}

// SetLogger replaces the global logger instance.
func SetLogger(logger *Logger) {
	mu.Lock()
	globalLogger = logger
	mu.Unlock()
	SetGlobalLogger(logger)
}

// Configure builds a logger from config and installs it globally.
func Configure(config Config) *Logger {
	l := New(config)
	SetLogger(l)
	return l
}

func Debug(msg string) {
	GetLogger().Debug(msg)
}

func Info(msg string) {
	GetLogger().Info(msg)
}

func Warn(msg string) {
	GetLogger().Warn(msg)
}

func Error(msg string) {
	GetLogger().Error(msg)
}

func WithField(key string, value interface{}) *Logger {
	return GetLogger().WithField(key, value)
}

func WithFields(fields map[string]interface{}) *Logger {
	return GetLogger().WithFields(fields)
}

func WithError(err error) *Logger {
	return GetLogger().WithError(err)
}
