// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package log

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/cihub/seelog"
)

var (
	logger *StatedbLogger

	// This buffer holds log lines emitted before the logger is set up. Even
	// if initializing the logger is one of the first things a command does,
	// config loading and flag parsing still run before it.
	//
	// This buffer should be very short lived.
	logsBuffer           = []func(){}
	bufferLogsBeforeInit = true
	bufferMutex          sync.Mutex
	defaultStackDepth    = 2
)

// StatedbLogger wrapper structure for seelog
type StatedbLogger struct {
	inner seelog.LoggerInterface
	level seelog.LogLevel
	l     sync.RWMutex
}

// SetupLogger configures the logger singleton with a seelog interface
func SetupLogger(l seelog.LoggerInterface, level string) {
	logger = &StatedbLogger{
		inner: l,
	}

	lvl, ok := seelog.LogLevelFromString(strings.ToLower(level))
	if !ok {
		lvl = seelog.InfoLvl
	}
	logger.level = lvl

	// We never call the wrapped logger directly, only through the exported
	// package functions, which adds two frames to skip over to report the
	// original caller.
	logger.inner.SetAdditionalStackDepth(defaultStackDepth) //nolint:errcheck

	// Flushing logs since the logger is now initialized
	bufferMutex.Lock()
	bufferLogsBeforeInit = false
	defer bufferMutex.Unlock()
	for _, logLine := range logsBuffer {
		logLine()
	}
	logsBuffer = []func(){}
}

func addLogToBuffer(logHandle func()) {
	bufferMutex.Lock()
	defer bufferMutex.Unlock()

	logsBuffer = append(logsBuffer, logHandle)
}

func (sw *StatedbLogger) changeLogLevel(level string) error {
	sw.l.Lock()
	defer sw.l.Unlock()

	lvl, ok := seelog.LogLevelFromString(strings.ToLower(level))
	if !ok {
		return errors.New("bad log level")
	}
	sw.level = lvl
	return nil
}

func (sw *StatedbLogger) shouldLog(level seelog.LogLevel) bool {
	sw.l.RLock()
	shouldLog := level >= sw.level
	sw.l.RUnlock()

	return shouldLog
}

func (sw *StatedbLogger) trace(s string) {
	sw.l.RLock()
	defer sw.l.RUnlock()
	sw.inner.Trace(s)
}

func (sw *StatedbLogger) debug(s string) {
	sw.l.RLock()
	defer sw.l.RUnlock()
	sw.inner.Debug(s)
}

func (sw *StatedbLogger) info(s string) {
	sw.l.RLock()
	defer sw.l.RUnlock()
	sw.inner.Info(s)
}

func (sw *StatedbLogger) warn(s string) error {
	sw.l.RLock()
	defer sw.l.RUnlock()
	return sw.inner.Warn(s)
}

func (sw *StatedbLogger) error(s string) error {
	sw.l.RLock()
	defer sw.l.RUnlock()
	return sw.inner.Error(s)
}

func (sw *StatedbLogger) critical(s string) error {
	sw.l.RLock()
	defer sw.l.RUnlock()
	return sw.inner.Critical(s)
}

func (sw *StatedbLogger) flush() {
	sw.l.RLock()
	defer sw.l.RUnlock()
	sw.inner.Flush()
}

func formatMessage(v ...interface{}) string {
	return fmt.Sprint(v...)
}

// Trace logs at the trace level
func Trace(v ...interface{}) {
	if logger != nil && logger.inner != nil {
		if logger.shouldLog(seelog.TraceLvl) {
			logger.trace(formatMessage(v...))
		}
	} else if bufferLogsBeforeInit {
		addLogToBuffer(func() { Trace(v...) })
	}
}

// Tracef logs with format at the trace level
func Tracef(format string, params ...interface{}) {
	if logger != nil && logger.inner != nil {
		if logger.shouldLog(seelog.TraceLvl) {
			logger.trace(fmt.Sprintf(format, params...))
		}
	} else if bufferLogsBeforeInit {
		addLogToBuffer(func() { Tracef(format, params...) })
	}
}

// Debug logs at the debug level
func Debug(v ...interface{}) {
	if logger != nil && logger.inner != nil {
		if logger.shouldLog(seelog.DebugLvl) {
			logger.debug(formatMessage(v...))
		}
	} else if bufferLogsBeforeInit {
		addLogToBuffer(func() { Debug(v...) })
	}
}

// Debugf logs with format at the debug level
func Debugf(format string, params ...interface{}) {
	if logger != nil && logger.inner != nil {
		if logger.shouldLog(seelog.DebugLvl) {
			logger.debug(fmt.Sprintf(format, params...))
		}
	} else if bufferLogsBeforeInit {
		addLogToBuffer(func() { Debugf(format, params...) })
	}
}

// Info logs at the info level
func Info(v ...interface{}) {
	if logger != nil && logger.inner != nil {
		if logger.shouldLog(seelog.InfoLvl) {
			logger.info(formatMessage(v...))
		}
	} else if bufferLogsBeforeInit {
		addLogToBuffer(func() { Info(v...) })
	}
}

// Infof logs with format at the info level
func Infof(format string, params ...interface{}) {
	if logger != nil && logger.inner != nil {
		if logger.shouldLog(seelog.InfoLvl) {
			logger.info(fmt.Sprintf(format, params...))
		}
	} else if bufferLogsBeforeInit {
		addLogToBuffer(func() { Infof(format, params...) })
	}
}

// Warn logs at the warn level and returns an error containing the formated log message
func Warn(v ...interface{}) error {
	err := errors.New(formatMessage(v...))
	if logger != nil && logger.inner != nil {
		if logger.shouldLog(seelog.WarnLvl) {
			logger.warn(err.Error()) //nolint:errcheck
		}
	} else if bufferLogsBeforeInit {
		addLogToBuffer(func() { Warn(v...) }) //nolint:errcheck
	}
	return err
}

// Warnf logs with format at the warn level and returns an error containing the formated log message
func Warnf(format string, params ...interface{}) error {
	err := fmt.Errorf(format, params...)
	if logger != nil && logger.inner != nil {
		if logger.shouldLog(seelog.WarnLvl) {
			logger.warn(err.Error()) //nolint:errcheck
		}
	} else if bufferLogsBeforeInit {
		addLogToBuffer(func() { Warnf(format, params...) }) //nolint:errcheck
	}
	return err
}

// Error logs at the error level and returns an error containing the formated log message
func Error(v ...interface{}) error {
	err := errors.New(formatMessage(v...))
	if logger != nil && logger.inner != nil {
		if logger.shouldLog(seelog.ErrorLvl) {
			logger.error(err.Error()) //nolint:errcheck
		}
	} else if bufferLogsBeforeInit {
		addLogToBuffer(func() { Error(v...) }) //nolint:errcheck
	}
	return err
}

// Errorf logs with format at the error level and returns an error containing the formated log message
func Errorf(format string, params ...interface{}) error {
	err := fmt.Errorf(format, params...)
	if logger != nil && logger.inner != nil {
		if logger.shouldLog(seelog.ErrorLvl) {
			logger.error(err.Error()) //nolint:errcheck
		}
	} else if bufferLogsBeforeInit {
		addLogToBuffer(func() { Errorf(format, params...) }) //nolint:errcheck
	}
	return err
}

// Critical logs at the critical level and returns an error containing the formated log message
func Critical(v ...interface{}) error {
	err := errors.New(formatMessage(v...))
	if logger != nil && logger.inner != nil {
		if logger.shouldLog(seelog.CriticalLvl) {
			logger.critical(err.Error()) //nolint:errcheck
		}
	} else if bufferLogsBeforeInit {
		addLogToBuffer(func() { Critical(v...) }) //nolint:errcheck
	}
	return err
}

// Criticalf logs with format at the critical level and returns an error containing the formated log message
func Criticalf(format string, params ...interface{}) error {
	err := fmt.Errorf(format, params...)
	if logger != nil && logger.inner != nil {
		if logger.shouldLog(seelog.CriticalLvl) {
			logger.critical(err.Error()) //nolint:errcheck
		}
	} else if bufferLogsBeforeInit {
		addLogToBuffer(func() { Criticalf(format, params...) }) //nolint:errcheck
	}
	return err
}

// Flush flushes the underlying inner log
func Flush() {
	if logger != nil && logger.inner != nil {
		logger.flush()
	}
}

// ChangeLogLevel changes the current log level, valid levels are trace, debug,
// info, warn, error and critical
func ChangeLogLevel(level string) error {
	if logger != nil && logger.inner != nil {
		return logger.changeLogLevel(level)
	}
	return errors.New("cannot change loglevel: logger not initialized")
}

// GetLogLevel returns the current log level
func GetLogLevel() (seelog.LogLevel, error) {
	if logger != nil && logger.inner != nil {
		logger.l.RLock()
		defer logger.l.RUnlock()
		return logger.level, nil
	}
	return seelog.InfoLvl, errors.New("cannot get loglevel: logger not initialized")
}

// ValidateLogLevel checks a log level string, returning its canonical form
func ValidateLogLevel(logLevel string) (string, error) {
	seelogLogLevel := strings.ToLower(logLevel)
	if seelogLogLevel == "warning" { // translate the common alias
		seelogLogLevel = "warn"
	}

	if _, found := seelog.LogLevelFromString(seelogLogLevel); !found {
		return "", fmt.Errorf("unknown log level: %s", seelogLogLevel)
	}
	return seelogLogLevel, nil
}

// createShortFilePathFormatter returns the ShortFilePath custom formatter,
// which trims everything up to the repository directory from the caller path.
func createShortFilePathFormatter(string) seelog.FormatterFunc {
	return func(_ string, _ seelog.LogLevel, context seelog.LogContextInterface) interface{} {
		parts := strings.Split(context.FullPath(), "statedb/")
		return parts[len(parts)-1]
	}
}

func init() {
	seelog.RegisterCustomFormatter("ShortFilePath", createShortFilePathFormatter) //nolint:errcheck
}

// SetupDefaultLogger sets up a console logger at the given level, used by
// one-shot commands that do not load a full config.
func SetupDefaultLogger(level string) error {
	l, err := seelog.LoggerFromWriterWithMinLevelAndFormat(os.Stderr, seelog.TraceLvl,
		"%Date(2006-01-02 15:04:05 MST) | STATEDB | %LEVEL | (%ShortFilePath:%Line in %FuncShort) | %ExtraTextContext%Msg%n")
	if err != nil {
		return err
	}
	SetupLogger(l, level)
	return nil
}
