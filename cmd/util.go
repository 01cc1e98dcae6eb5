// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/SladkyCitron/slogcolor"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/usgs-eros/espa-wrappers/model"
	"github.com/usgs-eros/espa-wrappers/wrapper"
)

// The wrappers are called by the larger processing framework which keys
// off the exit status, each failure category gets its own code
const (
	exitNoAction     = 2
	exitMissingInput = 3
	exitExecution    = 4
	exitBadMetadata  = 5
)

func newLogger() model.Logger {
	var level slog.Level

	switch {
	case debug:
		level = slog.LevelDebug
	case info:
		level = slog.LevelInfo
	default:
		level = slog.LevelWarn
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return wrapper.NewSlogLogger(logger)
}

func newOutputLogger() model.Logger {
	var level slog.Level

	switch {
	case debug:
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return wrapper.NewSlogLogger(slog.New(slogcolor.NewHandler(os.Stdout, &slogcolor.Options{Level: level})))
	}

	return wrapper.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

// newFileLogger appends timestamped processing lines to the log file the
// way the original wrappers wrote their processing logs
func newFileLogger(path string) (model.Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(f)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)

	return wrapper.NewLogrusLogger(logrus.NewEntry(logger)), nil
}

// teeLogger fans log lines out to the console and the processing log file
type teeLogger struct {
	loggers []model.Logger
}

func newTeeLogger(loggers ...model.Logger) *teeLogger {
	return &teeLogger{loggers: loggers}
}

func (t *teeLogger) Debug(msg string, args ...any) {
	for _, l := range t.loggers {
		l.Debug(msg, args...)
	}
}

func (t *teeLogger) Info(msg string, args ...any) {
	for _, l := range t.loggers {
		l.Info(msg, args...)
	}
}

func (t *teeLogger) Warn(msg string, args ...any) {
	for _, l := range t.loggers {
		l.Warn(msg, args...)
	}
}

func (t *teeLogger) Error(msg string, args ...any) {
	for _, l := range t.loggers {
		l.Error(msg, args...)
	}
}

func (t *teeLogger) With(args ...any) model.Logger {
	res := &teeLogger{}
	for _, l := range t.loggers {
		res.loggers = append(res.loggers, l.With(args...))
	}

	return res
}

func orDefault(v string, def string) string {
	if v == "" {
		return def
	}

	return v
}

// exitForError terminates the process with the exit code matching the
// failure category, errors outside the known categories are handed back
// for normal usage style reporting
func exitForError(log model.Logger, err error) error {
	var ee *model.ExecutionError

	switch {
	case errors.Is(err, model.ErrNoActionRequested):
		log.Error(err.Error())
		os.Exit(exitNoAction)
	case errors.Is(err, model.ErrMissingInputFile):
		log.Error(err.Error())
		os.Exit(exitMissingInput)
	case errors.Is(err, model.ErrInvalidMetadata), errors.Is(err, model.ErrInvalidSatellite):
		log.Error(err.Error())
		os.Exit(exitBadMetadata)
	case errors.As(err, &ee):
		log.Error(err.Error())
		os.Exit(exitExecution)
	}

	return err
}
