package event

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log writes one line per event. Lines start with the kind prefix so they can
// be matched as "[send] ..." or "[recv] ...".
type Log struct {
	logger *logrus.Logger
	render Render
}

func NewLog(out io.Writer, render Render) *Log {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&LineFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	return &Log{logger: logger, render: render}
}

// FromLogger wraps an already configured logger, e.g. one with hooks attached.
func FromLogger(logger *logrus.Logger, render Render) *Log {
	return &Log{logger: logger, render: render}
}

func (l *Log) Emit(ev Event) {
	entry := l.logger.WithTime(ev.At).WithFields(logrus.Fields{
		"peer":  ev.Peer.String(),
		"bytes": ev.Bytes,
		"id":    ev.ID.String(),
	})

	msg := ev.Kind.Prefix() + " " + l.render.Format(ev.Payload)
	if ev.Err != nil {
		entry.WithError(ev.Err).Warn(msg)
		return
	}
	entry.Info(msg)
}

// LineFormatter renders "<message> key=value ..." with keys sorted.
type LineFormatter struct {
	// TimestampFormat adds an "at" field when set.
	TimestampFormat string
}

func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeField(b, k, entry.Data[k])
	}
	if f.TimestampFormat != "" {
		writeField(b, "at", entry.Time.Format(f.TimestampFormat))
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func writeField(b *bytes.Buffer, key string, value interface{}) {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case error:
		s = v.Error()
	default:
		s = fmt.Sprint(v)
	}
	if s == "" || strings.ContainsAny(s, " \"=\t\n") {
		s = fmt.Sprintf("%q", s)
	}
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(s)
}
