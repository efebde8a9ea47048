package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the server configuration, loaded from an HCL file.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Table  TableSettings  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings configures the single table the server hosts.
type TableSettings struct {
	SmallBlind     int `hcl:"small_blind"`
	BigBlind       int `hcl:"big_blind"`
	StartingChips  int `hcl:"starting_chips,optional"`
	TurnTimeoutSec int `hcl:"turn_timeout_seconds,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Table: TableSettings{
			SmallBlind:     10,
			BigBlind:       20,
			StartingChips:  1000,
			TurnTimeoutSec: 30,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to defaults
// for a missing file and for any omitted optional fields.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if cfg.Server.Address == "" {
		cfg.Server.Address = defaults.Server.Address
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = defaults.Server.LogLevel
	}
	if cfg.Table.StartingChips == 0 {
		cfg.Table.StartingChips = defaults.Table.StartingChips
	}
	if cfg.Table.TurnTimeoutSec == 0 {
		cfg.Table.TurnTimeoutSec = defaults.Table.TurnTimeoutSec
	}
	if cfg.Table.SmallBlind <= 0 || cfg.Table.BigBlind <= cfg.Table.SmallBlind {
		return nil, fmt.Errorf("blinds must satisfy 0 < small_blind < big_blind, got %d/%d",
			cfg.Table.SmallBlind, cfg.Table.BigBlind)
	}

	return &cfg, nil
}
