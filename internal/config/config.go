// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the configuration of the cayley tool.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the name of the configuration file looked up by default.
const FileName = "cayley.toml"

// Config of the tool.
type Config struct {
	// LogLevel is the minimum level of the log messages.
	LogLevel string `toml:"log_level"`
	// Development enables the human readable logger.
	Development bool `toml:"development"`
	// CacheSize is the number of compiled programs kept in memory.
	CacheSize int `toml:"cache_size"`
	// VerifyOps checks at startup that the engine implements all the
	// legal instructions.
	VerifyOps bool `toml:"verify_ops"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel:  "warn",
		CacheSize: 128,
	}
}

// Parse decodes a TOML configuration.
// Missing keys keep their default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid configuration")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown configuration key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a configuration file.
// The default configuration is returned if the file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

// Validate returns an error if a field has an invalid value.
func (cfg *Config) Validate() error {
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return errors.Errorf("invalid log level %q", cfg.LogLevel)
	}
	if cfg.CacheSize <= 0 {
		return errors.Errorf("invalid cache size %d: must be positive", cfg.CacheSize)
	}
	return nil
}

// Logger builds the logger described by the configuration.
func (cfg *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Errorf("invalid log level %q", cfg.LogLevel)
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot build logger")
	}
	return logger, nil
}
