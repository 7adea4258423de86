package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"UDPBeat/config"
	"UDPBeat/event"
	"UDPBeat/network"

	"github.com/sirupsen/logrus"
)

func restoreStandardLogger(t *testing.T) {
	std := logrus.StandardLogger()
	out, level, formatter := std.Out, std.GetLevel(), std.Formatter
	t.Cleanup(func() {
		std.SetOutput(out)
		std.SetLevel(level)
		std.SetFormatter(formatter)
	})
}

func TestSetupStreams(t *testing.T) {
	restoreStandardLogger(t)

	var stdout, stderr bytes.Buffer
	l, err := Setup(config.Default().Log, &stdout, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	l.Diag.Info("receiver listening")
	l.Events.Emit(event.NewRecv(network.Datagram{Payload: []byte("test"), Peer: network.Endpoint{Host: "127.0.0.1", Port: 5}}))

	if !strings.HasPrefix(stdout.String(), "[recv] b'test'") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "receiver listening") {
		t.Error("diagnostics leaked to stdout")
	}
	if !strings.Contains(stderr.String(), "receiver listening") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestSetupFileMirror(t *testing.T) {
	restoreStandardLogger(t)

	c := config.Default().Log
	c.File = filepath.Join(t.TempDir(), "beat.log")
	c.Format = "json"
	c.Render = "hex"

	var stdout, stderr bytes.Buffer
	l, err := Setup(c, &stdout, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	l.Diag.Warn("send failed")
	l.Events.Emit(event.NewSend([]byte{0xab}, network.Endpoint{Host: "127.0.0.1", Port: 5}))
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.Contains(got, `"msg":"send failed"`) {
		t.Errorf("json diagnostics missing from file: %q", got)
	}
	if !strings.Contains(got, "[send] ab ") {
		t.Errorf("event line missing from file: %q", got)
	}
}

func TestSetupInvalid(t *testing.T) {
	restoreStandardLogger(t)

	c := config.Default().Log
	c.Level = "chatty"
	if _, err := Setup(c, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for bad level")
	}
	c = config.Default().Log
	c.Render = "octal"
	if _, err := Setup(c, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for bad render mode")
	}
}
