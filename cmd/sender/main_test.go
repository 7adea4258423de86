package main

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"UDPBeat/network"
)

func TestRunSendsAndExits(t *testing.T) {
	t.Setenv("UDPBEAT_CONFIG", "")

	rx, err := network.Bind(network.Endpoint{Host: "127.0.0.1", Port: 0}, network.SocketConfig{})
	if err != nil {
		t.Fatal(err)
	}
	defer rx.Close()

	var stdout, stderr bytes.Buffer
	args := []string{
		"-host", "127.0.0.1",
		"-port", strconv.Itoa(rx.LocalEndpoint().Port),
		"-payload", "test",
		"-interval", "5ms",
		"-count", "2",
	}
	if got := run(context.Background(), args, &stdout, &stderr); got != 0 {
		t.Fatalf("exit = %d, stderr %q", got, stderr.String())
	}
	if n := strings.Count(stdout.String(), "[send] b'test'"); n != 2 {
		t.Fatalf("expected 2 send lines, got %d: %q", n, stdout.String())
	}
	if !strings.Contains(stderr.String(), "sender finished") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunSetupFailures(t *testing.T) {
	t.Setenv("UDPBEAT_CONFIG", "")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"-h"}, 0},
		{"unknown flag", []string{"-bogus"}, 2},
		{"port zero", []string{"-port", "0"}, 1},
		{"empty host", []string{"-host", ""}, 1},
		{"zero interval", []string{"-interval", "0s"}, 1},
		{"payload too large", []string{"-payload", "abcdef", "-max", "4", "-count", "1"}, 1},
	}
	for _, tt := range tests {
		var stdout, stderr bytes.Buffer
		if got := run(context.Background(), tt.args, &stdout, &stderr); got != tt.want {
			t.Errorf("%s: exit = %d, want %d (stderr %q)", tt.name, got, tt.want, stderr.String())
		}
	}
}

func TestRunCleanShutdown(t *testing.T) {
	t.Setenv("UDPBEAT_CONFIG", "")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	if code := run(ctx, []string{"-interval", "10ms"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d after cancel, want 0 (stderr %q)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "[send] b'test'") {
		t.Errorf("stdout = %q", stdout.String())
	}
}
