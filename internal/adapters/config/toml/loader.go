// Package toml loads the server configuration with viper and writes it
// back as TOML.
package toml

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configDir       = ".pairline"
	configFile      = "config.toml"
	configType      = "toml"
	envPrefix       = "PAIRLINE"
	configFileMode  = 0o600
	configDirMode   = 0o700
	tempFilePattern = ".config-*.toml.tmp"
)

const (
	keyServerHost      = "server.host"
	keyServerPort      = "server.port"
	keySweepInterval   = "matchmaking.sweep_interval"
	keyMaxNameLength   = "matchmaking.max_name_length"
	keyMaxMessageBytes = "transport.max_message_bytes"
	keySendBuffer      = "transport.send_buffer"
	keyLogLevel        = "log.level"
	keyLogFormat       = "log.format"
)

var ErrConfigExists = errors.New("config file already exists")

// DefaultPath is ~/.pairline/config.toml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir, configFile), nil
}

type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader prepares v to read path (DefaultPath when empty), PAIRLINE_*
// environment variables and the PORT/NODE_PORT fallbacks.
func NewLoader(v *viper.Viper, path string) (*Loader, error) {
	if v == nil {
		v = viper.New()
	}
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	path = filepath.Clean(absPath)

	v.SetConfigName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	v.SetConfigType(configType)
	v.AddConfigPath(filepath.Dir(path))

	defaults := Defaults()
	v.SetDefault(keyServerHost, defaults.Server.Host)
	v.SetDefault(keyServerPort, defaults.Server.Port)
	v.SetDefault(keySweepInterval, defaults.Matchmaking.SweepInterval)
	v.SetDefault(keyMaxNameLength, defaults.Matchmaking.MaxNameLength)
	v.SetDefault(keyMaxMessageBytes, defaults.Transport.MaxMessageBytes)
	v.SetDefault(keySendBuffer, defaults.Transport.SendBuffer)
	v.SetDefault(keyLogLevel, defaults.Log.Level)
	v.SetDefault(keyLogFormat, defaults.Log.Format)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(keyServerPort, envPrefix+"_SERVER_PORT", "PORT", "NODE_PORT"); err != nil {
		return nil, fmt.Errorf("bind port env: %w", err)
	}

	return &Loader{v: v, path: path}, nil
}

func (l *Loader) Path() string {
	return l.path
}

// Viper exposes the underlying instance so commands can bind flags.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load merges defaults, the config file (if any) and the environment.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if version := l.v.GetInt("version"); version > currentSchemaVersion {
		return Config{}, fileSchema{Version: version}.validateVersion()
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode renders cfg in the on-disk format.
func Encode(cfg Config) ([]byte, error) {
	data, err := toml.Marshal(toSchema(cfg))
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// Write stores cfg at path through a temp file and rename. An existing
// file is only replaced when force is set.
func Write(path string, cfg Config, force bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat config file: %w", err)
		}
	}

	data, err := Encode(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), configDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := tempFile.Chmod(configFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	cleanup = false

	return nil
}
