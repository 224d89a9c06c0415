package app

import (
	"os"
	"strings"

	"github.com/Goutham-Eda/Carlo/internal/config"
)

const defaultConfigPath = "config.yaml"

// ConfigPath picks the YAML file: CARLO_CONFIG wins, then ./config.yaml.
// The file is optional; config.Load falls back to the environment.
func ConfigPath() string {
	if p := strings.TrimSpace(os.Getenv("CARLO_CONFIG")); p != "" {
		return p
	}
	return defaultConfigPath
}

func LoadConfig(path string) (*config.Config, error) {
	return config.Load(path)
}
