package am

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/cgkit/errors"
)

// Redacted replaces secrets in rendered configuration.
const Redacted = "********"

// ToTOML renders the configuration as TOML. Secrets are redacted.
func (c *Config) ToTOML() ([]byte, error) {
	shown := *c
	if shown.Neo4j.Password != "" {
		shown.Neo4j.Password = Redacted
	}
	data, err := toml.Marshal(shown)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render config")
	}
	return data, nil
}

// WriteFile writes the configuration, secrets included, to path.
func (c *Config) WriteFile(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
