package converter

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the optional on-disk descriptor for the converter tool. It lets a
// user pin a specific artifact, launcher or format pair without repeating
// flags on every run.
type Config struct {
	Path     string `mapstructure:"path"`
	Launcher string `mapstructure:"launcher"`
	Format   string `mapstructure:"format"`
}

// LoadConfig reads a YAML tool descriptor. A missing file is not an error:
// it returns a zero Config, meaning "resolve everything from flags and
// defaults". The YAML is decoded generically first so unknown keys are
// tolerated, then mapped onto the typed struct.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read tool config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse tool config: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode tool config: %w", err)
	}
	return cfg, nil
}
