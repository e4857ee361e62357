package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// Default values
const (
	DefaultStorePath      = "cgkit.db"
	DefaultKBName         = "default"
	DefaultIDScheme       = "counter"
	DefaultDebounceMillis = 500
	DefaultNeo4jURI       = "neo4j://localhost:7687"
	DefaultNeo4jUser      = "neo4j"
	DefaultNeo4jDatabase  = "neo4j"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Store defaults
	v.SetDefault("store.path", DefaultStorePath)
	v.SetDefault("store.kb_name", DefaultKBName)

	// Hierarchy defaults
	v.SetDefault("hierarchy.id_scheme", DefaultIDScheme)

	// Import defaults
	v.SetDefault("import.debounce_ms", DefaultDebounceMillis)
	v.SetDefault("import.atomic", true)

	// Neo4j mirror defaults (disabled)
	v.SetDefault("neo4j.enabled", false)
	v.SetDefault("neo4j.uri", DefaultNeo4jURI)
	v.SetDefault("neo4j.username", DefaultNeo4jUser)
	v.SetDefault("neo4j.database", DefaultNeo4jDatabase)

	v.SetDefault("log.json", false)
}

// BindSensitiveEnvVars explicitly binds sensitive configuration to environment variables
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("neo4j.password", "CGKIT_NEO4J_PASSWORD", "NEO4J_PASSWORD")
	v.BindEnv("store.path", "CGKIT_STORE_PATH")
}

// GetStorePath returns the configured database path
func (c *Config) GetStorePath() string {
	if c.Store.Path == "" {
		return DefaultStorePath
	}
	return c.Store.Path
}

// GetKBName returns the configured knowledge base name
func (c *Config) GetKBName() string {
	if c.Store.KBName == "" {
		return DefaultKBName
	}
	return c.Store.KBName
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Store: %s, KB: %s, IDScheme: %s, Neo4j: %t}",
		c.Store.Path, c.Store.KBName, c.Hierarchy.IDScheme, c.Neo4j.Enabled)
}
