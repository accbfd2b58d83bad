package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// FileConfig is the flat YAML document read from config.yaml.
// Every key is optional; flags and environment variables override it.
type FileConfig struct {
	Driver   string `yaml:"driver,omitempty"`
	DSN      string `yaml:"dsn,omitempty"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode,omitempty"`

	Table     string `yaml:"table,omitempty"`
	Delimiter string `yaml:"delimiter,omitempty"`
	Timeout   string `yaml:"timeout,omitempty"`

	AuthMethod     string `yaml:"auth_method,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
}

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "config.yaml"

// Load reads and parses the YAML file at path.
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return nil, err
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOptional reads path like Load, except that a missing file yields an
// empty config when the path was not explicitly requested.
func LoadOptional(path string, explicit bool) (*FileConfig, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrConfigNotFound) && !explicit {
		return &FileConfig{}, nil
	}
	return cfg, err
}

// Validate checks the values that can be checked without other sources.
func (c *FileConfig) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if _, err := c.DelimiterRune(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DelimiterRune returns the configured delimiter, or 0 if none is set.
// The value must be a single character; "\t" and "tab" select a tab.
func (c *FileConfig) DelimiterRune() (rune, error) {
	return ParseDelimiter(c.Delimiter)
}

// TimeoutDuration returns the configured run timeout, or 0 if none is set.
func (c *FileConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout %q cannot be negative", c.Timeout)
	}
	return d, nil
}

// ParseDelimiter converts a user-supplied delimiter into a rune.
// An empty string yields 0.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter %q must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
