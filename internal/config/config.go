package config

import (
	"fmt"
	"strings"

	"github.com/go-ini/ini"
)

// Config wraps an optional INI file of defaults. Flags given on the command line win over it.
type Config struct {
	path string
	ini  *ini.File
}

// CompareConfig represents the [compare] section
type CompareConfig struct {
	Policy         string
	OnError        string
	FailOnMismatch bool
	Exclude        []string
}

// OutputConfig represents the [output] section
type OutputConfig struct {
	Color          string
	Progress       bool
	LogLevel       string
	ResultJSONFile string
}

// Load reads the file at path. An empty path yields an empty config with built-in defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{ini: ini.Empty()}, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	return &Config{path: path, ini: f}, nil
}

// Path returns the file the config was loaded from, if any
func (c *Config) Path() string {
	return c.path
}

// GetCompareConfig returns the comparison configuration
func (c *Config) GetCompareConfig() (*CompareConfig, error) {
	compareConfig := &CompareConfig{
		Policy:  "continue", // fallback default
		OnError: "abort",    // fallback default
	}

	if !c.ini.HasSection("compare") {
		return compareConfig, nil
	}

	section := c.ini.Section("compare")
	if section.HasKey("policy") {
		compareConfig.Policy = section.Key("policy").String()
	}
	if section.HasKey("on_error") {
		compareConfig.OnError = section.Key("on_error").String()
	}
	if section.HasKey("fail_on_mismatch") {
		v, err := section.Key("fail_on_mismatch").Bool()
		if err != nil {
			return nil, fmt.Errorf("compare.fail_on_mismatch: %w", err)
		}
		compareConfig.FailOnMismatch = v
	}
	if section.HasKey("exclude") {
		for _, p := range section.Key("exclude").Strings(",") {
			if p = strings.TrimSpace(p); p != "" {
				compareConfig.Exclude = append(compareConfig.Exclude, p)
			}
		}
	}

	return compareConfig, nil
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() (*OutputConfig, error) {
	outputConfig := &OutputConfig{
		Color:    "auto", // fallback default
		LogLevel: "info", // fallback default
	}

	if !c.ini.HasSection("output") {
		return outputConfig, nil
	}

	section := c.ini.Section("output")
	if section.HasKey("color") {
		outputConfig.Color = section.Key("color").String()
	}
	if section.HasKey("progress") {
		v, err := section.Key("progress").Bool()
		if err != nil {
			return nil, fmt.Errorf("output.progress: %w", err)
		}
		outputConfig.Progress = v
	}
	if section.HasKey("log_level") {
		outputConfig.LogLevel = section.Key("log_level").String()
	}
	if section.HasKey("result_json_file") {
		outputConfig.ResultJSONFile = section.Key("result_json_file").String()
	}

	return outputConfig, nil
}
