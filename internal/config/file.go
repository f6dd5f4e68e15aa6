package config

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mimecast/urlgrep/internal/errors"
)

// LoadFile merges the YAML configuration file at path into c. Keys missing
// from the file keep their current values; unknown keys are an error so that
// typos do not go unnoticed.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading config file %s", path)
	}
	return c.load(data, path)
}

func (c *Config) load(data []byte, name string) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty file.
			return nil
		}
		return errors.Wrapf(errors.ErrInvalidConfig, "parsing %s: %v", name, err)
	}
	return nil
}
