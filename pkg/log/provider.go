package log

import (
	"io"
	"os"
	"sync"
)

type zerologProvider struct {
	mu    sync.RWMutex
	w     io.Writer
	level Level
}

// NewZerologProvider returns a LoggerProvider creating ZerologLoggers that
// write to w.
func NewZerologProvider(w io.Writer, level Level) LoggerProvider {
	return &zerologProvider{w: w, level: level}
}

func (p *zerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return NewZerologLogger(p.w, p.level)
}

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

func (p *zerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
}

var (
	providerMu      sync.RWMutex
	defaultProvider LoggerProvider = NewZerologProvider(os.Stderr, LevelWarn)
)

// SetProvider replaces the package-level provider. Loggers already handed
// out keep their previous back-end.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	defaultProvider = p
}

func currentProvider() LoggerProvider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider
}

// GetLogger returns the root logger of the active provider.
func GetLogger() Logger {
	return currentProvider().GetLogger()
}

// GetLoggerWithName returns a logger tagged with the component name.
func GetLoggerWithName(name string) Logger {
	return currentProvider().GetLoggerWithName(name)
}

// SetLevel sets the minimum level of the active provider.
func SetLevel(level Level) {
	currentProvider().SetLevel(level)
}
