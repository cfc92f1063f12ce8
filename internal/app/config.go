package app

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/vk/aprxrelink/internal/locator"
)

// DefaultConnectionFolders are the connection folders of the shared GIS file server.
var DefaultConnectionFolders = []string{
	`\\gisfileintprd\DatabaseConnections\PublicationDB`,
	`\\gisfileintprd\DatabaseConnections\CaptureDB\ReadOnly`,
	`\\gisfileintprd\DatabaseConnections\CaptureDB`,
}

// File extensions matched case-insensitively during discovery.
const (
	DefaultProjectExtension    = ".aprx"
	DefaultConnectionExtension = ".sde"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProjectFolders      []string
	ConnectionFolders   []string
	ProjectExtension    string
	ConnectionExtension string
	Rules               locator.Rules

	LogFormat  string
	LogLevel   string
	ReportPath string // empty disables the YAML report
}

// DefaultConfig returns the configuration used when neither a run file nor
// flags override a value.
func DefaultConfig() Config {
	return Config{
		ConnectionFolders:   append([]string(nil), DefaultConnectionFolders...),
		ProjectExtension:    DefaultProjectExtension,
		ConnectionExtension: DefaultConnectionExtension,
		Rules:               locator.DefaultRules(),
		LogFormat:           "text",
		LogLevel:            "info",
	}
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConnectionFolders) == 0 {
		return nil, errors.New("at least one connection folder is required")
	}
	if cfg.ProjectExtension == "" || cfg.ConnectionExtension == "" {
		return nil, errors.New("project and connection extensions cannot be empty")
	}
	if cfg.Rules.PatternMarker == "" || cfg.Rules.DefaultMarker == "" {
		return nil, errors.New("both connection markers are required")
	}
	if _, err := regexp.Compile(cfg.Rules.Pattern); err != nil {
		return nil, fmt.Errorf("invalid dataset pattern: %w", err)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	return &cfg, nil
}
