package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cgkit/am"
	"github.com/teranos/cgkit/display"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/kb"
	"github.com/teranos/cgkit/sym"
)

const familyDoc = `
conceptTypes:
  - label: Entity
    subLabels:
      - label: Human
        subLabels:
          - label: Adult
            subLabels: [{label: Man}]
          - label: Child
            subLabels: [{label: Boy}]
relationTypes:
  - label: ParentOf
    signature: [Adult, Child]
concepts:
  - label: Bob
    types: [Man]
    referent: {designatorKind: LITERAL, value: Bob}
  - label: Tom
    types: [Boy]
    referent: {designatorKind: THE, value: Tom}
`

func init() {
	pterm.DisableStyling()
}

// resetFlags restores every flag to its default so runs do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type env struct {
	t      *testing.T
	dir    string
	config string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	t.Setenv(display.OutputEnv, "")
	dir := t.TempDir()
	cfg := filepath.Join(dir, am.ProjectConfigName)
	body := "[store]\npath = \"" + filepath.ToSlash(filepath.Join(dir, "cgkit.db")) + "\"\nkb_name = \"family\"\n\n" +
		"[neo4j]\npassword = \"hunter2\"\n"
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0644))
	return &env{t: t, dir: dir, config: cfg}
}

func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	resetFlags(RootCmd)
	am.Reset()

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := RootCmd.Execute()
	return out.String(), err
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "cgkit %v: %s", args, out)
	return out
}

func (e *env) importFamily() {
	e.t.Helper()
	path := filepath.Join(e.dir, "family.yaml")
	require.NoError(e.t, os.WriteFile(path, []byte(familyDoc), 0644))
	e.mustRun("import", path)
}

func TestImportPersistsAcrossRuns(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.dir, "family.yaml")
	require.NoError(t, os.WriteFile(path, []byte(familyDoc), 0644))

	out := e.mustRun("import", path)
	assert.Contains(t, out, "6 created")

	out = e.mustRun("--json", "import", path)
	var report kb.ImportReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 0, report.ConceptTypes.Created)
	assert.Equal(t, 2, report.Unchanged)

	out = e.mustRun("--json", "kb", "stats")
	var stats kb.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, kb.Stats{ConceptTypes: 6, RelationTypes: 1, Concepts: 2}, stats)
}

func TestDescendantsAndTree(t *testing.T) {
	e := newEnv(t)
	e.importFamily()

	assert.Equal(t, "Boy\nChild\n", e.mustRun("descendants", "Child"))

	out := e.mustRun("tree")
	assert.Contains(t, out, sym.ConceptType+" concept-types")
	for _, l := range []string{"Entity", "Human", "Adult", "Man", "Child", "Boy"} {
		assert.Contains(t, out, l)
	}
	out = e.mustRun("tree", "--relations")
	assert.Contains(t, out, sym.RelationType+" relation-types")
	assert.Contains(t, out, "ParentOf")
	assert.Contains(t, out, "(Adult, Child)")

	_, err := e.run("descendants", "Ghost")
	assert.True(t, errors.Is(err, errors.ErrNoSuchType))
}

func TestTypeCommands(t *testing.T) {
	e := newEnv(t)
	e.importFamily()

	e.mustRun("type", "create", "Agent")
	e.mustRun("type", "rename", "Human", "Person")
	e.mustRun("type", "reparent", "Person", "--parent", "Entity", "--parent", "Agent")

	assert.Equal(t, "Adult\nAgent\nBoy\nChild\nMan\nPerson\n", e.mustRun("descendants", "Agent"))

	_, err := e.run("type", "delete", "Adult")
	assert.True(t, errors.Is(err, errors.ErrConflict), "Adult is used by the ParentOf signature: %v", err)

	e.mustRun("type", "create", "Unused", "--parent", "Entity")
	e.mustRun("type", "delete", "Unused")
	_, err = e.run("type", "rename", "Unused", "Other")
	assert.True(t, errors.Is(err, errors.ErrNoSuchType))
}

func TestRelationTypeCommands(t *testing.T) {
	e := newEnv(t)
	e.importFamily()

	out := e.mustRun("relation-type", "create", "Raises", "--parent", "ParentOf", "--signature", "Man,Boy")
	assert.Contains(t, out, "signature [Man Boy]")
	assert.Equal(t, "ParentOf\nRaises\n", e.mustRun("descendants", "--relations", "ParentOf"))

	_, err := e.run("relation-type", "create", "Bad", "--signature", "Ghost")
	assert.True(t, errors.Is(err, errors.ErrNoSuchType))

	e.mustRun("relation-type", "delete", "Raises")
}

func TestConceptMatchAndRelate(t *testing.T) {
	e := newEnv(t)
	e.importFamily()

	e.mustRun("concept", "add", "Ann", "--type", "Adult", "--referent", "LITERAL:Ann")

	out := e.mustRun("--json", "match", "--type", "Adult")
	var matched []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &matched))
	require.Len(t, matched, 2)
	assert.Equal(t, "Bob", matched[0]["label"])
	assert.Equal(t, "Ann", matched[1]["label"])

	out = e.mustRun("--json", "match", "--type", "Child", "--referent", "THE:Tom")
	require.NoError(t, json.Unmarshal([]byte(out), &matched))
	require.Len(t, matched, 1)

	out = e.mustRun("relate", "bob-parent-of-tom", "--type", "ParentOf", "--arg", "Bob", "--arg", "Tom")
	assert.Contains(t, out, "bob-parent-of-tom")

	_, err := e.run("relate", "wrong-way", "--type", "ParentOf", "--arg", "Tom", "--arg", "Bob")
	assert.True(t, errors.Is(err, errors.ErrSignatureMismatch), "got %v", err)

	out = e.mustRun("relation", "ls")
	assert.Contains(t, out, "bob-parent-of-tom")

	_, err = e.run("concept", "rm", "Tom")
	assert.True(t, errors.Is(err, errors.ErrConflict))
	e.mustRun("relation", "rm", "bob-parent-of-tom")
	e.mustRun("concept", "rm", "Tom")

	out = e.mustRun("concept", "ls")
	assert.NotContains(t, out, "Tom")
}

func TestKBNameFlag(t *testing.T) {
	e := newEnv(t)
	e.importFamily()
	e.mustRun("--kb", "scratch", "type", "create", "Thing")

	out := e.mustRun("--json", "kb", "list")
	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "family", list[0]["name"])
	assert.Equal(t, "scratch", list[1]["name"])

	e.mustRun("kb", "delete", "scratch")
	_, err := e.run("kb", "delete", "scratch")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestAmShowRedactsPassword(t *testing.T) {
	e := newEnv(t)
	for _, format := range []string{"toml", "json", "yaml"} {
		out := e.mustRun("am", "show", "--format", format)
		assert.NotContains(t, out, "hunter2", format)
		assert.Contains(t, out, am.Redacted, format)
	}
	_, err := e.run("am", "show", "--format", "xml")
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestMirrorDisabled(t *testing.T) {
	e := newEnv(t)
	_, err := e.run("mirror")
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun("version")
	assert.Contains(t, out, "cgkit")
	assert.Contains(t, out, "Platform:")
}
