package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance without user or project config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "cgkit.db", cfg.Store.Path)
	assert.Equal(t, "default", cfg.Store.KBName)
	assert.Equal(t, "counter", cfg.Hierarchy.IDScheme)
	assert.Equal(t, 500, cfg.Import.DebounceMillis)
	assert.True(t, cfg.Import.Atomic)
	assert.False(t, cfg.Neo4j.Enabled)
	assert.Equal(t, "neo4j://localhost:7687", cfg.Neo4j.URI)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"zero value is valid", Config{}, false},
		{"uuid scheme", Config{Hierarchy: HierarchyConfig{IDScheme: "uuid"}}, false},
		{"unknown scheme", Config{Hierarchy: HierarchyConfig{IDScheme: "snowflake"}}, true},
		{"zero debounce is valid", Config{Import: ImportConfig{DebounceMillis: 0}}, false},
		{"negative debounce", Config{Import: ImportConfig{DebounceMillis: -1}}, true},
		{"neo4j disabled ignores empty uri", Config{Neo4j: Neo4jConfig{}}, false},
		{"neo4j enabled needs uri", Config{Neo4j: Neo4jConfig{Enabled: true, Username: "neo4j"}}, true},
		{"neo4j enabled needs user", Config{Neo4j: Neo4jConfig{Enabled: true, URI: "neo4j://x"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cgkit.toml")
	content := `
[store]
path = "/tmp/kb.db"
kb_name = "family"

[hierarchy]
id_scheme = "uuid"

[neo4j]
enabled = true
password = "secret"
`
	require.NoError(t, os.WriteFile(path, []byte(content), DefaultFilePermissions))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/kb.db", cfg.Store.Path)
	assert.Equal(t, "family", cfg.GetKBName())
	assert.Equal(t, "uuid", cfg.Hierarchy.IDScheme)
	assert.True(t, cfg.Neo4j.Enabled)
	assert.Equal(t, "neo4j", cfg.Neo4j.Username, "defaults fill unset keys")
	assert.Equal(t, 500, cfg.Import.DebounceMillis)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cgkit.toml")
	require.NoError(t, os.WriteFile(path, []byte("[hierarchy]\nid_scheme = \"nope\"\n"), DefaultFilePermissions))

	_, err := LoadFromFile(path)
	assert.Error(t, err)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, DefaultDirPermissions))

	assert.Empty(t, FindProjectConfig(nested))

	path := filepath.Join(root, ProjectConfigName)
	require.NoError(t, os.WriteFile(path, []byte("[store]\n"), DefaultFilePermissions))
	assert.Equal(t, path, FindProjectConfig(nested))
}

func TestMergeConfigFiles_LaterWins(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "user.toml")
	project := filepath.Join(dir, "project.toml")
	require.NoError(t, os.WriteFile(user, []byte("[store]\nkb_name = \"user\"\npath = \"user.db\"\n"), DefaultFilePermissions))
	require.NoError(t, os.WriteFile(project, []byte("[store]\nkb_name = \"project\"\n"), DefaultFilePermissions))

	v := viper.New()
	SetDefaults(v)
	mergeConfigFiles(v, []string{user, filepath.Join(dir, "absent.toml"), project})

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, "project", cfg.Store.KBName)
	assert.Equal(t, "user.db", cfg.Store.Path)
	assert.Equal(t, project, v.GetString(configSourceKey))
}

func TestEnvOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("CGKIT_STORE_KB_NAME", "from-env")
	t.Setenv("CGKIT_NEO4J_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Store.KBName)
	assert.Equal(t, "pw", cfg.Neo4j.Password)
}

func TestToTOML_RedactsPassword(t *testing.T) {
	cfg := Config{
		Store: StoreConfig{Path: "kb.db", KBName: "family"},
		Neo4j: Neo4jConfig{Password: "secret"},
	}

	data, err := cfg.ToTOML()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	var back Config
	require.NoError(t, toml.Unmarshal(data, &back))
	assert.Equal(t, "family", back.Store.KBName)
	assert.Equal(t, Redacted, back.Neo4j.Password)
	assert.Equal(t, "secret", cfg.Neo4j.Password, "original is untouched")
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cgkit.toml")
	cfg := Config{
		Store:     StoreConfig{Path: "kb.db", KBName: "family"},
		Hierarchy: HierarchyConfig{IDScheme: "uuid"},
		Import:    ImportConfig{DebounceMillis: 100, Atomic: true},
	}
	require.NoError(t, cfg.WriteFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Store, loaded.Store)
	assert.Equal(t, cfg.Hierarchy, loaded.Hierarchy)
	assert.Equal(t, cfg.Import, loaded.Import)
}
