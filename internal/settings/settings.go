// Package settings provides YAML configuration loading for the analyzer.
package settings

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DepletionSettings control which parts of a depletion file are kept.
type DepletionSettings struct {
	// Materials filters parsed materials by name. Empty means load all.
	Materials []string `yaml:"materials"`
}

// DetectorSettings control which detectors are kept.
type DetectorSettings struct {
	// Names filters parsed detectors by base name. Empty means load all.
	Names []string `yaml:"names"`
}

// PlotSettings size the generated PNG plots in points.
type PlotSettings struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Settings is the root configuration for a run.
type Settings struct {
	Verbosity string            `yaml:"verbosity"`
	Depletion DepletionSettings `yaml:"depletion"`
	Detector  DetectorSettings  `yaml:"detector"`
	Plot      PlotSettings      `yaml:"plot"`
}

// Default returns the settings used when no file is given.
func Default() *Settings {
	return &Settings{
		Verbosity: "info",
		Plot:      PlotSettings{Width: 800, Height: 400},
	}
}

// Load reads a YAML settings file, substituting ${ENV_VAR} references
// before unmarshalling. Missing fields keep their defaults.
func Load(filePath string) (*Settings, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	content := substituteEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}
	if cfg.Verbosity == "" {
		cfg.Verbosity = "info"
	}
	if cfg.Plot.Width <= 0 {
		cfg.Plot.Width = 800
	}
	if cfg.Plot.Height <= 0 {
		cfg.Plot.Height = 400
	}
	return cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		content = content[:start] + os.Getenv(varName) + content[end+1:]
	}
	return content
}
