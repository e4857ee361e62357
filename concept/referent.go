package concept

import (
	"strconv"
	"strings"

	"github.com/teranos/cgkit/errors"
)

// DesignatorKind tags how a referent designates its individual.
type DesignatorKind int

// Designator kinds. The zero value is Blank.
const (
	Blank DesignatorKind = iota
	Lambda
	Literal
	The
	GraphLabel
)

var designatorNames = [...]string{
	Blank:      "BLANK",
	Lambda:     "LAMBDA",
	Literal:    "LITERAL",
	The:        "THE",
	GraphLabel: "CONCEPTUAL_GRAPH_LABEL",
}

func (k DesignatorKind) String() string {
	if k < 0 || int(k) >= len(designatorNames) {
		return "DesignatorKind(" + strconv.Itoa(int(k)) + ")"
	}
	return designatorNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k DesignatorKind) Valid() bool {
	return k >= 0 && int(k) < len(designatorNames)
}

// ParseDesignatorKind accepts the canonical names case-insensitively.
func ParseDesignatorKind(s string) (DesignatorKind, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for k, name := range designatorNames {
		if up == name {
			return DesignatorKind(k), nil
		}
	}
	if up == "GRAPH_LABEL" {
		return GraphLabel, nil
	}
	return Blank, errors.WithHint(
		errors.NewInvalidRequestError("unknown designator kind %q", s),
		"use one of BLANK, LAMBDA, LITERAL, THE, CONCEPTUAL_GRAPH_LABEL")
}

// MarshalText implements encoding.TextMarshaler.
func (k DesignatorKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.NewInvalidRequestError("invalid designator kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *DesignatorKind) UnmarshalText(b []byte) error {
	parsed, err := ParseDesignatorKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Referent designates the individual a concept stands for.
//
// Value is only carried by Literal, The and GraphLabel; an absent value and
// an empty one are the same.
type Referent struct {
	Kind  DesignatorKind `json:"designatorKind" yaml:"designatorKind" toml:"designatorKind"`
	Value string         `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

// BlankReferent is the generic referent "some individual".
func BlankReferent() Referent { return Referent{Kind: Blank} }

// LambdaReferent is the query variable that accepts any referent.
func LambdaReferent() Referent { return Referent{Kind: Lambda} }

// LiteralReferent carries a literal value such as a name or a number.
func LiteralReferent(v string) Referent { return Referent{Kind: Literal, Value: v} }

// TheReferent designates one known individual.
func TheReferent(v string) Referent { return Referent{Kind: The, Value: v} }

// GraphLabelReferent points at a nested conceptual graph by label.
func GraphLabelReferent(v string) Referent { return Referent{Kind: GraphLabel, Value: v} }

// ParseReferent reads "KIND" or "KIND:value", e.g. "LITERAL:42".
func ParseReferent(s string) (Referent, error) {
	kind, value, _ := strings.Cut(s, ":")
	k, err := ParseDesignatorKind(kind)
	if err != nil {
		return Referent{}, err
	}
	r := Referent{Kind: k, Value: value}
	if err := r.Validate(); err != nil {
		return Referent{}, err
	}
	return r, nil
}

// Validate checks that the value matches the kind.
func (r Referent) Validate() error {
	switch r.Kind {
	case Blank, Lambda:
		if r.Value != "" {
			return errors.NewInvalidRequestError("%s referent cannot carry a value", r.Kind)
		}
	case Literal, The, GraphLabel:
		if r.Value == "" {
			return errors.NewInvalidRequestError("%s referent needs a value", r.Kind)
		}
	default:
		return errors.NewInvalidRequestError("invalid designator kind %d", int(r.Kind))
	}
	return nil
}

// Equal reports whether both referents have the same kind and value.
func (r Referent) Equal(other Referent) bool {
	return r.Kind == other.Kind && r.Value == other.Value
}

// AcceptedBy reports whether a query referent accepts r. A Lambda query
// accepts anything; every other kind requires an exact match.
func (r Referent) AcceptedBy(query Referent) bool {
	switch query.Kind {
	case Lambda:
		return true
	case Blank, Literal, The, GraphLabel:
		return r.Equal(query)
	default:
		return false
	}
}

func (r Referent) String() string {
	if r.Value == "" {
		return r.Kind.String()
	}
	return r.Kind.String() + ":" + r.Value
}
