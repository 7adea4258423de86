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
	"UDPBeat/receiver"
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

	fs := flag.NewFlagSet("receiver", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to YAML config file")
	fs.String("host", d.Receiver.Host, "Bind host")
	fs.Int("port", d.Receiver.Port, "Bind port")
	fs.Int("max", d.Receiver.MaxDatagram, "Max datagram size in bytes")
	keys := config.LogFlags(fs, d.Log)
	keys["host"] = "receiver.host"
	keys["port"] = "receiver.port"
	keys["max"] = "receiver.max_datagram"

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

	ep, err := cfg.Receiver.Endpoint()
	if err != nil {
		log.WithError(err).Error("invalid bind endpoint")
		return 1
	}

	r, err := receiver.New(ep,
		receiver.WithMaxDatagram(cfg.Receiver.MaxDatagram),
		receiver.WithLogger(log),
		receiver.WithEvents(loggers.Events),
	)
	if err != nil {
		log.WithError(err).Error("failed to bind")
		return 1
	}

	if err := r.Run(ctx); err != nil {
		log.WithError(err).Error("receiver exited")
		return 1
	}
	return 0
}
