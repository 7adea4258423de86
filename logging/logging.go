package logging

import (
	"fmt"
	"io"
	"strings"

	"UDPBeat/config"
	"UDPBeat/event"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Loggers struct {
	// Diag is the process-wide logrus logger used for startup, warnings and errors.
	Diag *logrus.Logger
	// Events receives the [send]/[recv] lines.
	Events *event.Log

	file *lumberjack.Logger
}

// Setup configures the standard logrus logger for diagnostics on stderr and an
// event log on stdout. When c.File is set both streams are mirrored into a
// rotated file.
func Setup(c config.LogConfig, stdout, stderr io.Writer) (*Loggers, error) {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	render, err := event.ParseRender(c.Render)
	if err != nil {
		return nil, err
	}

	l := &Loggers{}
	diagOut, eventOut := stderr, stdout
	if strings.TrimSpace(c.File) != "" {
		l.file = &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    max(c.Rotation.MaxSizeMB, 1),
			MaxBackups: c.Rotation.MaxBackups,
			MaxAge:     c.Rotation.MaxAgeDays,
			Compress:   c.Rotation.Compress,
		}
		diagOut = io.MultiWriter(stderr, l.file)
		eventOut = io.MultiWriter(stdout, l.file)
	}

	diag := logrus.StandardLogger()
	diag.SetOutput(diagOut)
	diag.SetLevel(level)
	diag.SetFormatter(Formatter(c.Format))
	l.Diag = diag

	l.Events = event.NewLog(eventOut, render)
	return l, nil
}

// Formatter returns the diagnostics formatter for "text" or "json".
func Formatter(format string) logrus.Formatter {
	if strings.EqualFold(format, "json") {
		return &logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"}
	}
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
}

func (l *Loggers) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
