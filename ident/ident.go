// Package ident generates stable identifiers for type nodes, concepts and relations.
//
// Identifiers are opaque to every other package. Two schemes exist:
//   - counter: a monotonic decimal counter with a prefix ("t1", "t2", ...)
//   - uuid: a random UUID rendered in base58 for compact CLI output
package ident

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"

	"github.com/teranos/cgkit/errors"
)

// Scheme names accepted by NewGenerator.
const (
	SchemeCounter = "counter"
	SchemeUUID    = "uuid"
)

// Generator hands out identifiers that are never reused by the same generator.
type Generator interface {
	Next() string
}

// Counter is a monotonic identifier service. Safe for concurrent use.
type Counter struct {
	prefix string
	last   atomic.Uint64
}

// NewCounter returns a counter whose first identifier is prefix+"1".
func NewCounter(prefix string) *Counter {
	return &Counter{prefix: prefix}
}

// Next returns the next identifier.
func (c *Counter) Next() string {
	return c.prefix + strconv.FormatUint(c.last.Add(1), 10)
}

// Observe moves the counter past id when id was produced with the same prefix.
// Used after restoring persisted state so new identifiers never collide.
func (c *Counter) Observe(id string) {
	if len(id) <= len(c.prefix) || id[:len(c.prefix)] != c.prefix {
		return
	}
	n, err := strconv.ParseUint(id[len(c.prefix):], 10, 64)
	if err != nil {
		return
	}
	for {
		cur := c.last.Load()
		if n <= cur || c.last.CompareAndSwap(cur, n) {
			return
		}
	}
}

// UUID generates random identifiers.
type UUID struct {
	prefix string
}

// NewUUID returns a UUID generator.
func NewUUID(prefix string) *UUID {
	return &UUID{prefix: prefix}
}

// Next returns a base58-encoded random UUID.
func (u *UUID) Next() string {
	id := uuid.New()
	return u.prefix + base58.Encode(id[:])
}

// NewGenerator builds a generator for the named scheme.
func NewGenerator(scheme, prefix string) (Generator, error) {
	switch scheme {
	case "", SchemeCounter:
		return NewCounter(prefix), nil
	case SchemeUUID:
		return NewUUID(prefix), nil
	default:
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("unknown id scheme %q", scheme),
			"use \"counter\" or \"uuid\"")
	}
}

// Observer is implemented by generators that can skip past restored identifiers.
type Observer interface {
	Observe(id string)
}
