package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/todo/internal/util"
)

// ErrConfigExists is returned by WriteDefault when the file exists and
// overwrite was not requested.
var ErrConfigExists = errors.New("config file already exists")

// Marshal renders the file-backed part of c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// WriteDefault writes the built-in configuration to path.
func WriteDefault(path string, force bool) error {
	exists, err := util.Exists(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if exists && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	data, err := Default().Marshal()
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
