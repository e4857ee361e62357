package display

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().BoolP("json", "j", false, "")
	return cmd
}

func TestShouldOutputJSON(t *testing.T) {
	t.Setenv(OutputEnv, "")
	cmd := newJSONCmd()
	assert.False(t, ShouldOutputJSON(cmd))
	assert.False(t, ShouldOutputJSON(nil))

	require.NoError(t, cmd.Flags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(cmd))
}

func TestShouldOutputJSON_Env(t *testing.T) {
	for _, v := range []string{"json", "jsonl"} {
		t.Setenv(OutputEnv, v)
		assert.True(t, ShouldOutputJSON(newJSONCmd()), v)
	}

	t.Setenv(OutputEnv, "json")
	cmd := newJSONCmd()
	require.NoError(t, cmd.Flags().Set("json", "false"))
	assert.False(t, ShouldOutputJSON(cmd), "explicit flag wins")

	t.Setenv(OutputEnv, "text")
	assert.False(t, ShouldOutputJSON(newJSONCmd()))
}

func TestWriteJSON_Compact(t *testing.T) {
	t.Setenv(OutputEnv, "jsonl")
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\"a\":1}\n", buf.String())
}
