package am

import "github.com/teranos/cgkit/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Empty store path falls back to DefaultStorePath
	switch c.Hierarchy.IDScheme {
	case "", "counter", "uuid":
	default:
		return errors.WithHint(
			errors.Newf("hierarchy.id_scheme must be counter or uuid, got %q", c.Hierarchy.IDScheme),
			"set hierarchy.id_scheme in cgkit.toml or CGKIT_HIERARCHY_ID_SCHEME")
	}

	// Debounce: 0 = re-import on every event, negative = invalid
	if c.Import.DebounceMillis < 0 {
		return errors.Newf("import.debounce_ms must be >= 0, got %d", c.Import.DebounceMillis)
	}

	// Neo4j settings only matter when the mirror is enabled
	if c.Neo4j.Enabled {
		if c.Neo4j.URI == "" {
			return errors.New("neo4j.uri cannot be empty when enabled")
		}
		if c.Neo4j.Username == "" {
			return errors.New("neo4j.username cannot be empty when enabled")
		}
	}

	return nil
}
