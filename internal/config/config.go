// Package config loads the settings shared by the command-line tools.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dacapoday/bplus"
	"github.com/dacapoday/bplus/bptree"
	"github.com/dacapoday/bplus/internal/logger"
	"github.com/dacapoday/bplus/internal/telemetry"
)

var ErrInvalidOrder = bplus.ErrInvalidOrder

// Config is the top-level configuration file layout.
type Config struct {
	Order     int              `yaml:"order"`
	Verbose   bool             `yaml:"verbose"`
	Log       logger.Config    `yaml:"log"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Order: bptree.DefaultOrder,
		Log: logger.Config{
			Level:      "info",
			Format:     "console",
			OutputFile: "stderr",
		},
		Telemetry: telemetry.Config{
			ServiceName:    "bplus",
			PrometheusPort: 9464,
		},
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Parse decodes YAML on top of Default. ${VAR} and ${VAR:-default}
// are replaced from the environment first. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	config := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(substituteEnv(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

// Validate reports settings the tools cannot run with.
func (config *Config) Validate() error {
	if config.Order < bptree.MinOrder || config.Order > bptree.MaxOrder {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidOrder, config.Order, bptree.MinOrder, bptree.MaxOrder)
	}
	if config.Telemetry.PrometheusPort < 0 || config.Telemetry.PrometheusPort > 65535 {
		return fmt.Errorf("invalid prometheus port %d", config.Telemetry.PrometheusPort)
	}
	return nil
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnv(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := string(match[2 : len(match)-1])
		if name, fallback, ok := strings.Cut(name, ":-"); ok {
			if val := os.Getenv(name); val != "" {
				return []byte(val)
			}
			return []byte(fallback)
		}
		return []byte(os.Getenv(name))
	})
}
