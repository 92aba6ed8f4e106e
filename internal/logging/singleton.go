package logging

import (
	"sync"
)

var (
	mu      sync.RWMutex
	process *Logger
)

// Configure builds the process logger from config and installs it for
// GetLogger. cmd/server calls it once after loading the environment; a later
// call replaces the logger and closes the previous one.
func Configure(config *Config) error {
	logger, err := NewLogger(config)
	if err != nil {
		return err
	}

	mu.Lock()
	previous := process
	process = logger
	mu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}
	return nil
}

// GetLogger returns the process logger. Before Configure it returns a no-op
// logger, so commands that never load the environment stay silent.
func GetLogger() *Logger {
	mu.RLock()
	defer mu.RUnlock()

	if process == nil {
		return NewNop()
	}
	return process
}
