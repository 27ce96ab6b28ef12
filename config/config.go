// Package config loads shorthand.yaml, the same way the teacher repo's
// cli/cmd/config.go loads sqlcode.yaml: stat for existence, then
// yaml.Unmarshal into a typed struct.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of shorthand.yaml.
type Config struct {
	FinalMatchRaw bool   `yaml:"final_match_raw"`
	TemplatesDir  string `yaml:"templates_dir"`
}

// LoadConfig looks for shorthand.yaml in dir.
func LoadConfig(dir string) (Config, error) {
	var result Config

	configFilename := filepath.Join(dir, "shorthand.yaml")
	if _, err := os.Stat(configFilename); os.IsNotExist(err) {
		return Config{}, errors.New("no shorthand.yaml found in " + dir)
	}

	content, err := os.ReadFile(configFilename)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(content, &result); err != nil {
		return Config{}, err
	}
	return result, nil
}
