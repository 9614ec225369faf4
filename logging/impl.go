package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger interface used across the engine.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})

	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// Sublogger returns a logger named "<name>.<subname>" writing to the same outputs. Its level
	// starts at the parent's and changes independently.
	Sublogger(subname string) Logger
	SetLevel(level Level)
	GetLevel() Level
	Desugar() *zap.Logger
	Sync() error
}

type impl struct {
	name  string
	level AtomicLevel
	core  zapcore.Core
	*zap.SugaredLogger
}

func newImpl(name string, level Level, cores ...zapcore.Core) *impl {
	return newImplWithCore(name, NewAtomicLevelAt(level), zapcore.NewTee(cores...))
}

func newImplWithCore(name string, level AtomicLevel, core zapcore.Core) *impl {
	logger := zap.New(core, zap.AddCaller(), zap.IncreaseLevel(level.AtomicLevel))
	if name != "" {
		logger = logger.Named(name)
	}
	return &impl{name: name, level: level, core: core, SugaredLogger: logger.Sugar()}
}

func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = imp.name + "." + subname
	}
	return newImplWithCore(newName, NewAtomicLevelAt(imp.level.Get()), imp.core)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Get()
}

func (imp *impl) Sync() error {
	return imp.core.Sync()
}
