package log

import (
	"context"
	"log/slog"
)

// SlogLogger adapts a *slog.Logger to Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps l. A nil l uses slog.Default().
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{logger: l}
}

func (s *SlogLogger) Debug(msg string, fields ...any) { s.logger.Debug(msg, splitFields(fields)...) }
func (s *SlogLogger) Info(msg string, fields ...any)  { s.logger.Info(msg, splitFields(fields)...) }
func (s *SlogLogger) Warn(msg string, fields ...any)  { s.logger.Warn(msg, splitFields(fields)...) }
func (s *SlogLogger) Error(msg string, fields ...any) { s.logger.Error(msg, splitFields(fields)...) }

func (s *SlogLogger) With(fields ...any) Logger {
	return &SlogLogger{logger: s.logger.With(splitFields(fields)...)}
}

func (s *SlogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.logger.Enabled(ctx, slog.Level(level))
}

type slogProvider struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

// NewSlogProvider returns a LoggerProvider backed by l. SetLevel adjusts
// levelVar, which must be the level used by l's handler.
func NewSlogProvider(l *slog.Logger, levelVar *slog.LevelVar) LoggerProvider {
	return &slogProvider{logger: l, level: levelVar}
}

func (p *slogProvider) GetLogger() Logger {
	return NewSlogLogger(p.logger)
}

func (p *slogProvider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

func (p *slogProvider) SetLevel(level Level) {
	if p.level != nil {
		p.level.Set(slog.Level(level))
	}
}
