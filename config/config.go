// Package config loads receiver, sender and logging settings from defaults,
// an optional YAML file, UDPBEAT_* environment variables and CLI overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"UDPBeat/event"
	"UDPBeat/network"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. UDPBEAT_RECEIVER_PORT.
const EnvPrefix = "UDPBEAT"

type Config struct {
	Receiver ReceiverConfig `mapstructure:"receiver"`
	Sender   SenderConfig   `mapstructure:"sender"`
	Log      LogConfig      `mapstructure:"log"`
}

type ReceiverConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MaxDatagram int    `mapstructure:"max_datagram"`
}

type SenderConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Payload     string        `mapstructure:"payload"`
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Broadcast   bool          `mapstructure:"broadcast"`
	TTL         int           `mapstructure:"ttl"`
	MaxDatagram int           `mapstructure:"max_datagram"`
	// Count stops the sender after that many datagrams. Zero runs until cancelled.
	Count uint64 `mapstructure:"count"`
}

type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: text or json. Applies to diagnostics only; event lines keep their own format.
	Format string `mapstructure:"format"`
	// Render: bytes, text or hex
	Render string `mapstructure:"render"`
	// File is an optional rotated log file that mirrors stdout and stderr.
	File     string         `mapstructure:"file"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

func Default() *Config {
	return &Config{
		Receiver: ReceiverConfig{
			Host:        "127.0.0.1",
			Port:        10000,
			MaxDatagram: network.DefaultMaxDatagram,
		},
		Sender: SenderConfig{
			Host:        "127.0.0.1",
			Port:        10000,
			Payload:     "test",
			Interval:    time.Second,
			Timeout:     time.Second,
			MaxDatagram: network.DefaultMaxDatagram,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Render: "bytes",
			Rotation: RotationConfig{
				MaxSizeMB:  10,
				MaxBackups: 3,
				MaxAgeDays: 7,
			},
		},
	}
}

// Load builds the configuration. path may be empty, in which case UDPBEAT_CONFIG
// and then ./udpbeat.yaml are tried; a missing file is not an error. overrides
// maps dotted keys (e.g. "sender.interval") to string values and wins over
// everything else.
func Load(path string, overrides map[string]string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("receiver.host", cfg.Receiver.Host)
	v.SetDefault("receiver.port", cfg.Receiver.Port)
	v.SetDefault("receiver.max_datagram", cfg.Receiver.MaxDatagram)
	v.SetDefault("sender.host", cfg.Sender.Host)
	v.SetDefault("sender.port", cfg.Sender.Port)
	v.SetDefault("sender.payload", cfg.Sender.Payload)
	v.SetDefault("sender.interval", cfg.Sender.Interval)
	v.SetDefault("sender.timeout", cfg.Sender.Timeout)
	v.SetDefault("sender.broadcast", cfg.Sender.Broadcast)
	v.SetDefault("sender.ttl", cfg.Sender.TTL)
	v.SetDefault("sender.max_datagram", cfg.Sender.MaxDatagram)
	v.SetDefault("sender.count", cfg.Sender.Count)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.render", cfg.Log.Render)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("udpbeat")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".udpbeat"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text":
		c.Log.Format = "text"
	case "json":
		c.Log.Format = "json"
	default:
		return fmt.Errorf("invalid log.format: %q", c.Log.Format)
	}
	if _, err := event.ParseRender(c.Log.Render); err != nil {
		return fmt.Errorf("invalid log.render: %w", err)
	}
	if c.Receiver.MaxDatagram <= 0 {
		c.Receiver.MaxDatagram = network.DefaultMaxDatagram
	}
	if c.Sender.MaxDatagram <= 0 {
		c.Sender.MaxDatagram = network.DefaultMaxDatagram
	}
	if c.Sender.Interval <= 0 {
		return fmt.Errorf("invalid sender.interval: %s", c.Sender.Interval)
	}
	if c.Sender.TTL < 0 || c.Sender.TTL > 255 {
		return fmt.Errorf("invalid sender.ttl: %d", c.Sender.TTL)
	}
	if c.Sender.Timeout < 0 {
		return fmt.Errorf("invalid sender.timeout: %s", c.Sender.Timeout)
	}
	return nil
}

// Endpoint returns the validated bind endpoint.
func (r ReceiverConfig) Endpoint() (network.Endpoint, error) {
	return network.NewBindEndpoint(r.Host, r.Port)
}

// Remote returns the validated destination endpoint.
func (s SenderConfig) Remote() (network.Endpoint, error) {
	return network.NewEndpoint(s.Host, s.Port)
}
