// Package config loads the YAML configuration for the softi2c commands.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log    LogConfig    `yaml:"log"`
	Slave  SlaveConfig  `yaml:"slave"`
	EEPROM EEPROMConfig `yaml:"eeprom"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

type SlaveConfig struct {
	Address    uint8 `yaml:"address"`
	BufferSize int   `yaml:"buffer_size"`
}

type EEPROMConfig struct {
	Enable   bool `yaml:"enable"`
	Size     int  `yaml:"size"`
	PageSize int  `yaml:"page_size"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Slave:  SlaveConfig{Address: 0x42, BufferSize: 16},
		EEPROM: EEPROMConfig{Size: 256, PageSize: 8},
	}
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Slave.Address == 0 || cfg.Slave.Address > 0x7F {
		return Config{}, fmt.Errorf("slave.address must be a 7-bit address, got 0x%X", cfg.Slave.Address)
	}
	if cfg.Slave.BufferSize <= 0 {
		cfg.Slave.BufferSize = 16
	}

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("log.level must be debug, info, warn, or error, got %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "", "text", "json":
	default:
		return Config{}, fmt.Errorf("log.format must be text or json, got %q", cfg.Log.Format)
	}

	if cfg.EEPROM.Enable {
		if cfg.EEPROM.Size <= 0 || cfg.EEPROM.Size > 256 {
			return Config{}, fmt.Errorf("eeprom.size must be 1..256, got %d", cfg.EEPROM.Size)
		}
		if cfg.EEPROM.PageSize <= 0 || cfg.EEPROM.Size%cfg.EEPROM.PageSize != 0 {
			return Config{}, fmt.Errorf("eeprom.page_size must divide eeprom.size, got %d", cfg.EEPROM.PageSize)
		}
	}

	return cfg, nil
}
