// Package snapshot produces a deterministic, content-addressed debug
// rendering of a tree: a CBOR encoding of its structure, hashed with
// SHA-256. It exists purely for diagnostics and test fixtures (e.g.
// "did this tree change between two builds of the same plan"), never
// for wire transport — canonical S-expression bytes remain the only
// wire format.
package snapshot

import (
	"crypto/sha256"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Node is the CBOR-friendly mirror of one sexpr tree element. Atoms
// carry Data; lists carry Children; the distinction is IsList rather
// than a nil check so an empty list round-trips unambiguously.
type Node struct {
	IsList   bool
	Data     []byte `cbor:",omitempty"`
	Children []Node `cbor:",omitempty"`
}

// Snapshot is a named, hashable rendering of a tree's structure.
type Snapshot struct {
	Label string
	Root  Node
}

// Of builds a Snapshot of a tree already rendered into Node form; the
// sexpr package provides the adapter (sexpr.Snapshot) that walks its
// internal tagged buffer and produces the Node tree, since sexpr.Tree's
// layout is not exported across the package boundary.
func Of(label string, root Node) *Snapshot {
	return &Snapshot{Label: label, Root: root}
}

// MarshalBinary produces a deterministic CBOR encoding of the
// snapshot, byte-for-byte stable across runs for identical input,
// using the same canonical encoding options as the wire serializer
// this package was grounded on.
func (s *Snapshot) MarshalBinary() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("snapshot: failed to create CBOR encoder: %w", err)
	}
	type snapshotAlias Snapshot
	data, err := encMode.Marshal((*snapshotAlias)(s))
	if err != nil {
		return nil, fmt.Errorf("snapshot: CBOR encoding failed: %w", err)
	}
	return data, nil
}

// Hash computes the SHA-256 digest of the canonical CBOR encoding of
// the snapshot's Root, suitable for "did this tree's structure change"
// test assertions. The Label does not enter the digest, so two
// snapshots of the same structure hash equal whatever their labels.
func (s *Snapshot) Hash() ([32]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return [32]byte{}, fmt.Errorf("snapshot: failed to create CBOR encoder: %w", err)
	}
	data, err := encMode.Marshal(s.Root)
	if err != nil {
		return [32]byte{}, fmt.Errorf("snapshot: CBOR encoding failed: %w", err)
	}
	return sha256.Sum256(data), nil
}
