package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version     int               `toml:"version"`
	Server      serverSchema      `toml:"server"`
	Matchmaking matchmakingSchema `toml:"matchmaking"`
	Transport   transportSchema   `toml:"transport"`
	Log         logSchema         `toml:"log"`
}

type serverSchema struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type matchmakingSchema struct {
	SweepInterval string `toml:"sweep_interval"`
	MaxNameLength int    `toml:"max_name_length"`
}

type transportSchema struct {
	MaxMessageBytes int64 `toml:"max_message_bytes"`
	SendBuffer      int   `toml:"send_buffer"`
}

type logSchema struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported config schema version %d (current %d)", s.Version, currentSchemaVersion)
	}
	return nil
}

func toSchema(cfg Config) fileSchema {
	return fileSchema{
		Version: currentSchemaVersion,
		Server: serverSchema{
			Host: cfg.Server.Host,
			Port: cfg.Server.Port,
		},
		Matchmaking: matchmakingSchema{
			SweepInterval: cfg.Matchmaking.SweepInterval.String(),
			MaxNameLength: cfg.Matchmaking.MaxNameLength,
		},
		Transport: transportSchema{
			MaxMessageBytes: cfg.Transport.MaxMessageBytes,
			SendBuffer:      cfg.Transport.SendBuffer,
		},
		Log: logSchema{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
		},
	}
}

