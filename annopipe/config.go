package annopipe

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/ancrage/anchor"
	"github.com/hazyhaar/ancrage/doctext"
)

// Config configures the pipeline.
type Config struct {
	// LogDBPath enables the SQLite diagnostic event store when non-empty.
	LogDBPath string `yaml:"log_db_path"`

	// Doc controls document text acquisition for file-based entry points.
	Doc doctext.Options `yaml:"doc"`

	// EventSink receives anchoring diagnostics in addition to the logger
	// and the event store.
	EventSink anchor.EventSink `yaml:"-"`

	// Logger for pipeline messages. Default: slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Doc.Logger == nil {
		c.Doc.Logger = c.Logger
	}
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("annopipe: read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("annopipe: parse config: %w", err)
	}
	return cfg, nil
}
