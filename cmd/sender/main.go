package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"UDPBeat/config"
	"UDPBeat/logging"
	"UDPBeat/sender"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run returns the process exit code. Cancelling ctx is a clean shutdown.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	d := config.Default()

	fs := flag.NewFlagSet("sender", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to YAML config file")
	fs.String("host", d.Sender.Host, "Remote host")
	fs.Int("port", d.Sender.Port, "Remote port")
	fs.String("payload", d.Sender.Payload, "Payload; "+sender.SeqToken+" is replaced by the send counter")
	fs.Duration("interval", d.Sender.Interval, "Delay between sends")
	fs.Duration("timeout", d.Sender.Timeout, "Socket receive timeout")
	fs.Bool("broadcast", d.Sender.Broadcast, "Enable SO_BROADCAST")
	fs.Int("ttl", d.Sender.TTL, "IPv4 TTL (0 keeps the system default)")
	fs.Int("max", d.Sender.MaxDatagram, "Max datagram size in bytes")
	fs.Uint64("count", d.Sender.Count, "Stop after this many sends (0 runs until interrupted)")
	keys := config.LogFlags(fs, d.Log)
	keys["host"] = "sender.host"
	keys["port"] = "sender.port"
	keys["payload"] = "sender.payload"
	keys["interval"] = "sender.interval"
	keys["timeout"] = "sender.timeout"
	keys["broadcast"] = "sender.broadcast"
	keys["ttl"] = "sender.ttl"
	keys["max"] = "sender.max_datagram"
	keys["count"] = "sender.count"

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*configPath, config.Overrides(fs, keys))
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}

	loggers, err := logging.Setup(cfg.Log, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to setup logger: %v\n", err)
		return 1
	}
	defer loggers.Close()
	log := loggers.Diag

	remote, err := cfg.Sender.Remote()
	if err != nil {
		log.WithError(err).Error("invalid remote endpoint")
		return 1
	}

	s, err := sender.New(
		sender.WithTimeout(cfg.Sender.Timeout),
		sender.WithBroadcast(cfg.Sender.Broadcast),
		sender.WithTTL(cfg.Sender.TTL),
		sender.WithMaxDatagram(cfg.Sender.MaxDatagram),
		sender.WithCount(cfg.Sender.Count),
		sender.WithLogger(log),
		sender.WithEvents(loggers.Events),
	)
	if err != nil {
		log.WithError(err).Error("failed to open socket")
		return 1
	}

	if err := s.Run(ctx, remote, []byte(cfg.Sender.Payload), cfg.Sender.Interval); err != nil {
		log.WithError(err).Error("sender exited")
		return 1
	}
	st := s.Stats()
	log.WithField("sent", st.Sent).WithField("failed", st.Failed).Info("sender finished")
	return 0
}
