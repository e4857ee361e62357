// Package signature checks relation instantiations against the positional
// concept-type signatures of relation types.
package signature

import (
	"fmt"

	"github.com/teranos/cgkit/concept"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/hierarchy"
)

// ConceptSource resolves concept arguments. Implemented by *concept.Store.
type ConceptSource interface {
	GetByID(id string) (concept.Concept, bool)
	GetByLabel(label string) (concept.Concept, bool)
	ConceptTypeSet(id string) ([]string, bool)
}

// RelationTypes resolves relation-type nodes. Implemented by *hierarchy.Store.
type RelationTypes interface {
	GetByLabel(label string) (hierarchy.TypeNode, bool)
}

// MatchedSignature is the first relation type whose signature accepted the arguments.
type MatchedSignature struct {
	RelationType string
	Signature    []string
	Arguments    []concept.Concept
}

// ArityError reports an argument count that differs from the signature length.
type ArityError struct {
	RelationType string
	Got          int
	Want         int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("relation type %q: arity mismatch: %d vs %d", e.RelationType, e.Got, e.Want)
}

// Unwrap lets errors.Is match ErrArityMismatch.
func (e *ArityError) Unwrap() error { return errors.ErrArityMismatch }

// MismatchError names the first argument whose types do not conform to the
// signature position.
type MismatchError struct {
	RelationType string
	Position     int
	Concept      string
	Want         string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("relation type %q: argument %d (%q) is not a %s", e.RelationType, e.Position, e.Concept, e.Want)
}

// Unwrap lets errors.Is match ErrSignatureMismatch.
func (e *MismatchError) Unwrap() error { return errors.ErrSignatureMismatch }

// Validator checks concept arguments against relation-type signatures.
type Validator struct {
	relations RelationTypes
	concepts  ConceptSource
	types     hierarchy.Closure
}

// NewValidator wires a validator over the relation-type hierarchy, the concept
// store and the concept-type closure.
func NewValidator(relations RelationTypes, concepts ConceptSource, types hierarchy.Closure) *Validator {
	return &Validator{relations: relations, concepts: concepts, types: types}
}

// Validate returns the first relation type, in the given order, whose
// signature accepts the arguments. Only the listed labels are considered.
//
// Every argument must resolve in the concept store, by ID when set and by
// label otherwise; type sets are read from the store. When no label matches
// and every label failed on arity, the first arity error is returned,
// otherwise the first mismatch.
func (v *Validator) Validate(relationTypeLabels []string, args []concept.Concept) (MatchedSignature, error) {
	resolved, err := v.resolveArguments(args)
	if err != nil {
		return MatchedSignature{}, err
	}
	if len(relationTypeLabels) == 0 {
		return MatchedSignature{}, errors.Wrap(errors.ErrSignatureMismatch, "no relation type given")
	}

	var firstArity *ArityError
	var firstMismatch *MismatchError
	for _, label := range relationTypeLabels {
		node, ok := v.relations.GetByLabel(label)
		if !ok {
			return MatchedSignature{}, errors.Wrapf(errors.ErrNoSuchType, "relation type %q", label)
		}
		err := v.check(node, resolved)
		if err == nil {
			return MatchedSignature{
				RelationType: node.Label,
				Signature:    node.Signature,
				Arguments:    resolved,
			}, nil
		}

		switch e := err.(type) {
		case *ArityError:
			if firstArity == nil {
				firstArity = e
			}
		case *MismatchError:
			if firstMismatch == nil {
				firstMismatch = e
			}
		}
	}

	switch {
	case firstMismatch != nil:
		return MatchedSignature{}, firstMismatch
	case firstArity != nil:
		return MatchedSignature{}, firstArity
	}
	return MatchedSignature{}, errors.Wrap(errors.ErrSignatureMismatch, "no relation type accepted the arguments")
}

// check validates arguments against one signature.
func (v *Validator) check(node hierarchy.TypeNode, args []concept.Concept) error {
	if len(args) != len(node.Signature) {
		return &ArityError{RelationType: node.Label, Got: len(args), Want: len(node.Signature)}
	}
	for i, want := range node.Signature {
		types := args[i].TypeLabels
		if len(types) == 0 || !v.types.DescendantsOf(want).ContainsAll(types) {
			return &MismatchError{RelationType: node.Label, Position: i, Concept: args[i].Label, Want: want}
		}
	}
	return nil
}

func (v *Validator) resolveArguments(args []concept.Concept) ([]concept.Concept, error) {
	out := make([]concept.Concept, 0, len(args))
	for i, a := range args {
		var c concept.Concept
		var ok bool
		if a.ID != "" {
			c, ok = v.concepts.GetByID(a.ID)
		} else {
			c, ok = v.concepts.GetByLabel(a.Label)
		}
		if !ok {
			return nil, errors.Wrapf(errors.ErrNoSuchConcept, "argument %d (%q)", i, argName(a))
		}
		types, _ := v.concepts.ConceptTypeSet(c.ID)
		c.TypeLabels = types
		out = append(out, c)
	}
	return out, nil
}

func argName(c concept.Concept) string {
	if c.ID != "" {
		return c.ID
	}
	return c.Label
}
