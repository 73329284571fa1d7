// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package vocab implements vocabularies of semantic pointers: named
high-dimensional unit-norm vectors equipped with a circular-convolution
binding algebra (bind, unbind, superposition, cosine similarity).

Symbols are generated once from a seeded random source and are immutable
thereafter -- by construction, distinct symbols are nearly orthogonal
with overwhelming probability at typical dimensionalities (64+), which is
what makes the algebra usable: bound pairs do not interfere with their
constituents, and similarity against a superposition reads out membership.
*/
package vocab

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/c2h5oh/datasize"
	"github.com/goki/kigen/ordmap"
)

var (
	// ErrDuplicateSymbol is returned by Add for an already-defined name.
	ErrDuplicateSymbol = errors.New("symbol already defined in vocabulary")

	// ErrUnknownSymbol is returned for lookups of names never added.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrDimensionMismatch is returned when vector lengths disagree.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Symbol is a named semantic pointer within a vocabulary.
type Symbol struct {
	Name string    `desc:"unique name of this symbol within its vocabulary"`
	Vec  []float32 `desc:"unit-norm vector of vocabulary dimensionality -- generated once, immutable thereafter"`
}

// Vocab is an ordered collection of symbols sharing one dimensionality,
// with the binding algebra operating over their vectors.
// Iteration order is insertion order, so a vocabulary built from the same
// names and seed is bit-identical every time.
type Vocab struct {
	Dim  int                         `desc:"dimensionality of all vectors in this vocabulary"`
	Seed int64                       `desc:"seed for the random source that symbol vectors are drawn from"`
	Syms ordmap.Map[string, *Symbol] `desc:"symbols in insertion order"`
	Rnd  *rand.Rand                  `view:"-" desc:"random source for symbol generation -- seeded at New"`
}

// New returns a new vocabulary of given dimensionality, with symbol
// vectors drawn from a source seeded with given seed.
func New(dim int, seed int64) (*Vocab, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("vocab.New: dimension must be positive, got %d", dim)
	}
	vc := &Vocab{Dim: dim, Seed: seed}
	vc.Syms = *ordmap.New[string, *Symbol]()
	vc.Rnd = rand.New(rand.NewSource(seed))
	return vc, nil
}

// Add generates a new pseudo-random unit-norm symbol vector under given
// name.  Returns ErrDuplicateSymbol if the name is already present.
func (vc *Vocab) Add(name string) (*Symbol, error) {
	if _, has := vc.Syms.ValByKey(name); has {
		return nil, fmt.Errorf("vocab.Add: %q: %w", name, ErrDuplicateSymbol)
	}
	vec := make([]float32, vc.Dim)
	for i := range vec {
		vec[i] = float32(vc.Rnd.NormFloat64())
	}
	UnitNorm(vec)
	sym := &Symbol{Name: name, Vec: vec}
	vc.Syms.Add(name, sym)
	return sym, nil
}

// AddMany adds each of the given names in order, stopping at the first error.
func (vc *Vocab) AddMany(names ...string) error {
	for _, nm := range names {
		if _, err := vc.Add(nm); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the symbol stored under name, or ErrUnknownSymbol.
func (vc *Vocab) Get(name string) (*Symbol, error) {
	sym, has := vc.Syms.ValByKey(name)
	if !has {
		return nil, fmt.Errorf("vocab.Get: %q: %w", name, ErrUnknownSymbol)
	}
	return sym, nil
}

// Vector returns the vector stored under name, or ErrUnknownSymbol.
// The returned slice is the vocabulary's own storage: read-only by contract.
func (vc *Vocab) Vector(name string) ([]float32, error) {
	sym, err := vc.Get(name)
	if err != nil {
		return nil, err
	}
	return sym.Vec, nil
}

// Has returns true if name is defined in this vocabulary.
func (vc *Vocab) Has(name string) bool {
	_, has := vc.Syms.ValByKey(name)
	return has
}

// Len returns the number of symbols.
func (vc *Vocab) Len() int {
	return vc.Syms.Len()
}

// Names returns all symbol names in insertion order.
func (vc *Vocab) Names() []string {
	nms := make([]string, vc.Syms.Len())
	for i, kv := range vc.Syms.Order {
		nms[i] = kv.Key
	}
	return nms
}

// Similarity returns the cosine similarity of two vectors in [-1, 1].
// Returns ErrDimensionMismatch if the lengths differ.
func (vc *Vocab) Similarity(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vocab.Similarity: %d != %d: %w", len(a), len(b), ErrDimensionMismatch)
	}
	return Cosine(a, b), nil
}

// MemSize returns the memory footprint of the symbol vectors in
// human-readable form, e.g., for reporting at build time.
func (vc *Vocab) MemSize() string {
	nb := uint64(vc.Syms.Len()) * uint64(vc.Dim) * 4
	return (datasize.ByteSize)(nb).HumanReadable()
}
