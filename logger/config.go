// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logger

import (
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
)

type Config struct {
	Level          string `yaml:"level"`
	DisplayLevel   string `yaml:"displayLevel"`
	Format         string `yaml:"format"`
	Directory      string `yaml:"directory"`
	MaxSize        int    `yaml:"maxSize"`  // megabytes
	MaxFiles       int    `yaml:"maxFiles"` // files
	MaxAge         int    `yaml:"maxAge"`   // days
	Compress       bool   `yaml:"compress"`
	DisableDisplay bool   `yaml:"disableDisplay"`
}

func NewDefaultConfig() Config {
	return Config{
		Level:        logging.Info.String(),
		DisplayLevel: logging.Info.String(),
		Format:       logging.AutoFormat,
		Directory:    "logs",
		MaxSize:      8,
		MaxFiles:     7,
		MaxAge:       0,
	}
}

// Parse converts c into an avalanchego logging config.
func (c *Config) Parse() (logging.Config, error) {
	level, err := logging.ToLevel(c.Level)
	if err != nil {
		return logging.Config{}, err
	}
	displayLevel, err := logging.ToLevel(c.DisplayLevel)
	if err != nil {
		return logging.Config{}, err
	}
	format, err := logging.ToFormat(c.Format, os.Stderr.Fd())
	if err != nil {
		return logging.Config{}, err
	}
	return logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   c.MaxSize,
			MaxFiles:  c.MaxFiles,
			MaxAge:    c.MaxAge,
			Directory: c.Directory,
			Compress:  c.Compress,
		},
		DisableWriterDisplaying: c.DisableDisplay,
		LogLevel:                level,
		DisplayLevel:            displayLevel,
		LogFormat:               format,
	}, nil
}
