package toml

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/pairline/internal/domain"
	"github.com/bnema/pairline/internal/logging"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Matchmaking MatchmakingConfig `mapstructure:"matchmaking"`
	Transport   TransportConfig   `mapstructure:"transport"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type MatchmakingConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	MaxNameLength int           `mapstructure:"max_name_length"`
}

type TransportConfig struct {
	MaxMessageBytes int64 `mapstructure:"max_message_bytes"`
	SendBuffer      int   `mapstructure:"send_buffer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Defaults() Config {
	return Config{
		Server: ServerConfig{Port: 3000},
		Matchmaking: MatchmakingConfig{
			SweepInterval: time.Second,
			MaxNameLength: domain.DefaultMaxNameLength,
		},
		Transport: TransportConfig{
			MaxMessageBytes: 8192,
			SendBuffer:      64,
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func (c Config) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	if c.Matchmaking.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("matchmaking.sweep_interval must be positive, got %s", c.Matchmaking.SweepInterval))
	}
	if c.Matchmaking.MaxNameLength <= 0 {
		errs = append(errs, fmt.Errorf("matchmaking.max_name_length must be positive, got %d", c.Matchmaking.MaxNameLength))
	}
	if c.Transport.MaxMessageBytes <= 0 {
		errs = append(errs, fmt.Errorf("transport.max_message_bytes must be positive, got %d", c.Transport.MaxMessageBytes))
	}
	if c.Transport.SendBuffer <= 0 {
		errs = append(errs, fmt.Errorf("transport.send_buffer must be positive, got %d", c.Transport.SendBuffer))
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of %s, %s", c.Log.Format, logging.FormatConsole, logging.FormatJSON))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
