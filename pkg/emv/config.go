package emv

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Config holds the discovery settings that can be loaded from a YAML file.
// Absent fields keep the defaults from DefaultConfig.
type Config struct {
	// Reader names the PC/SC reader to use. Empty means the first reader
	// found.
	Reader string `yaml:"reader"`

	// PSE overrides the Payment System Environment name.
	PSE string `yaml:"pse"`

	// MaxRecords caps the directory record walk.
	MaxRecords uint8 `yaml:"max_records"`

	// AcceptablePrefixes filters candidate AIDs, one hex string per
	// prefix. An empty list accepts every application.
	AcceptablePrefixes []string `yaml:"acceptable_prefixes"`
}

// DefaultConfig returns the built-in settings: the standard PSE name and
// the default issuer acceptance list.
func DefaultConfig() *Config {
	prefixes := make([]string, 0, len(DefaultAcceptablePrefixes))
	for _, prefix := range DefaultAcceptablePrefixes {
		prefixes = append(prefixes, strings.ToUpper(hex.EncodeToString(prefix)))
	}
	return &Config{
		PSE:                PSEName,
		MaxRecords:         defaultMaxRecords,
		AcceptablePrefixes: prefixes,
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing configuration %s: %w", path, err)
	}
	return config, nil
}

// PrefixBytes decodes the acceptance list into raw AID prefixes. Hex
// strings may contain spaces for readability.
func (c *Config) PrefixBytes() ([][]byte, error) {
	prefixes := make([][]byte, 0, len(c.AcceptablePrefixes))
	for _, text := range c.AcceptablePrefixes {
		prefix, err := hex.DecodeString(strings.ReplaceAll(text, " ", ""))
		if err != nil {
			return nil, fmt.Errorf("invalid AID prefix %q: %w", text, err)
		}
		prefixes = append(prefixes, prefix)
	}
	return prefixes, nil
}

// Discovery builds a Discovery from the configuration.
func (c *Config) Discovery(card *Card, prompter Prompter, decode CodeTableDecoder) (*Discovery, error) {
	prefixes, err := c.PrefixBytes()
	if err != nil {
		return nil, err
	}
	return &Discovery{
		Card:               card,
		Prompter:           prompter,
		DecodeName:         decode,
		AcceptablePrefixes: prefixes,
		PSE:                c.PSE,
		MaxRecords:         c.MaxRecords,
	}, nil
}
