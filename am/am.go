// Package am loads cgkit configuration ("am" as in "I am configured as").
//
// Sources, lowest to highest precedence: defaults, ~/.cgkit/am.toml, the
// nearest cgkit.toml found walking up from the working directory, and
// CGKIT_* environment variables.
package am

// Config represents the cgkit configuration
type Config struct {
	Store     StoreConfig     `mapstructure:"store" toml:"store"`
	Hierarchy HierarchyConfig `mapstructure:"hierarchy" toml:"hierarchy"`
	Import    ImportConfig    `mapstructure:"import" toml:"import"`
	Neo4j     Neo4jConfig     `mapstructure:"neo4j" toml:"neo4j"`
	Log       LogConfig       `mapstructure:"log" toml:"log"`
}

// StoreConfig configures the SQLite snapshot store
type StoreConfig struct {
	Path   string `mapstructure:"path" toml:"path"`       // SQLite database file
	KBName string `mapstructure:"kb_name" toml:"kb_name"` // Knowledge base loaded by the CLI
}

// HierarchyConfig configures the type hierarchies
type HierarchyConfig struct {
	IDScheme string `mapstructure:"id_scheme" toml:"id_scheme"` // "counter" or "uuid"
}

// ImportConfig configures document import and watching
type ImportConfig struct {
	DebounceMillis int  `mapstructure:"debounce_ms" toml:"debounce_ms"` // Quiet period before a watched file is re-imported
	Atomic         bool `mapstructure:"atomic" toml:"atomic"`           // Roll back a failed import
}

// Neo4jConfig configures the optional graph mirror
type Neo4jConfig struct {
	Enabled  bool   `mapstructure:"enabled" toml:"enabled"`
	URI      string `mapstructure:"uri" toml:"uri"`
	Username string `mapstructure:"username" toml:"username"`
	Password string `mapstructure:"password" toml:"password"`
	Database string `mapstructure:"database" toml:"database"`
}

// LogConfig configures logging
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json"` // Production JSON output instead of console
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
