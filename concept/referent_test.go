package concept

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/cgkit/errors"
)

func TestDesignatorKind_String(t *testing.T) {
	assert.Equal(t, "BLANK", Blank.String())
	assert.Equal(t, "LAMBDA", Lambda.String())
	assert.Equal(t, "CONCEPTUAL_GRAPH_LABEL", GraphLabel.String())
	assert.Equal(t, "DesignatorKind(9)", DesignatorKind(9).String())
}

func TestParseDesignatorKind(t *testing.T) {
	tests := []struct {
		in   string
		want DesignatorKind
	}{
		{"BLANK", Blank},
		{"lambda", Lambda},
		{" Literal ", Literal},
		{"THE", The},
		{"conceptual_graph_label", GraphLabel},
		{"graph_label", GraphLabel},
	}
	for _, tt := range tests {
		got, err := ParseDesignatorKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseDesignatorKind("SOME")
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestReferent_TextEncoding(t *testing.T) {
	c := Concept{Label: "Tom", TypeLabels: []string{"Boy"}, Referent: TheReferent("Tom")}

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"Tom","types":["Boy"],"referent":{"designatorKind":"THE","value":"Tom"}}`, string(raw))

	var fromJSON Concept
	require.NoError(t, json.Unmarshal(raw, &fromJSON))
	assert.Equal(t, c, fromJSON)

	var fromYAML Concept
	require.NoError(t, yaml.Unmarshal([]byte("label: x\ntypes: [Human]\nreferent:\n  designatorKind: lambda\n"), &fromYAML))
	assert.Equal(t, LambdaReferent(), fromYAML.Referent)

	err = json.Unmarshal([]byte(`{"designatorKind":"NOPE"}`), &Referent{})
	assert.Error(t, err)
}

func TestParseReferent(t *testing.T) {
	r, err := ParseReferent("LITERAL:42")
	require.NoError(t, err)
	assert.Equal(t, LiteralReferent("42"), r)

	r, err = ParseReferent("lambda")
	require.NoError(t, err)
	assert.Equal(t, LambdaReferent(), r)

	_, err = ParseReferent("LITERAL")
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	_, err = ParseReferent("BLANK:x")
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestReferent_Validate(t *testing.T) {
	assert.NoError(t, BlankReferent().Validate())
	assert.NoError(t, GraphLabelReferent("g1").Validate())
	assert.Error(t, Referent{Kind: The}.Validate())
	assert.Error(t, Referent{Kind: DesignatorKind(7)}.Validate())
}

func TestReferent_AcceptedBy(t *testing.T) {
	tests := []struct {
		name     string
		referent Referent
		query    Referent
		want     bool
	}{
		{"lambda accepts blank", BlankReferent(), LambdaReferent(), true},
		{"lambda accepts literal", LiteralReferent("x"), LambdaReferent(), true},
		{"lambda accepts lambda", LambdaReferent(), LambdaReferent(), true},
		{"blank matches blank", BlankReferent(), BlankReferent(), true},
		{"blank query rejects literal", LiteralReferent("x"), BlankReferent(), false},
		{"literal equal", LiteralReferent("x"), LiteralReferent("x"), true},
		{"literal differs", LiteralReferent("x"), LiteralReferent("y"), false},
		{"kind differs", TheReferent("x"), LiteralReferent("x"), false},
		{"graph label equal", GraphLabelReferent("g"), GraphLabelReferent("g"), true},
		{"unknown query kind", BlankReferent(), Referent{Kind: DesignatorKind(9)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.referent.AcceptedBy(tt.query))
		})
	}
}

func TestReferent_String(t *testing.T) {
	assert.Equal(t, "LAMBDA", LambdaReferent().String())
	assert.Equal(t, "THE:Tom", TheReferent("Tom").String())
}
