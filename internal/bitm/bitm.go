// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package bitm defines a bitmap type useful for resource management
// (e.g., memory allocation and free list implementations).
//
// Bitm is a thin, method-compatible wrapper over internal/bitvec.V:
// the two packages started out as separate, nearly line-for-line
// duplicate free-list bitmap implementations, differing only in
// receiver/field names and in bitvec.V's extra iter.Seq2-based All
// method. node.Graph is the one caller that wants the narrower Bitm
// name for its node-handle free list; everything it calls through
// Bitm is already implemented once, in bitvec.V.
package bitm

import "s72engine/internal/bitvec"

// Uint represents the granularity of a bitmap.
type Uint = bitvec.Uint

// Bitm is a growable bitmap with custom granularity.
type Bitm[T Uint] struct {
	v bitvec.V[T]
}

// Len returns the number of bits in the map.
func (m *Bitm[T]) Len() int { return m.v.Len() }

// Rem returns the number of unset bits in the map.
func (m *Bitm[T]) Rem() int { return m.v.Rem() }

// Grow resizes the map to contain nplus additional Uints.
// The new extent will be appended as a contiguous range of
// unset bits, such that requesting the range
//
//	nplus * <number of bits in T>
//
// is guaranteed to succeed.
// It returns the value of m.Len prior to appending the new
// extent, so if nplus is less than 1, this value will be
// out of bounds.
// It is valid to call this method with any value of nplus.
func (m *Bitm[T]) Grow(nplus int) int { return m.v.Grow(nplus) }

// Shrink resizes the map to contain nminus less Uints.
// This in effect truncates the map, so the bits in the range
//
//	m.Len() - nminus*<number of bits in T> : m.Len()
//
// will be removed.
// It is valid to call this method with any value of nminus.
func (m *Bitm[T]) Shrink(nminus int) { m.v.Shrink(nminus) }

// Set sets a given bit.
func (m *Bitm[T]) Set(index int) { m.v.Set(index) }

// Unset unsets a given bit.
func (m *Bitm[T]) Unset(index int) { m.v.Unset(index) }

// IsSet checks whether a given bit is set.
func (m *Bitm[T]) IsSet(index int) bool { return m.v.IsSet(index) }

// Search attempts to locate an unset bit in the map.
// If ok is true, then index is a value suitable for use in
// a call to m.Set.
// This method will fail only when m.Rem() == 0.
func (m *Bitm[T]) Search() (index int, ok bool) { return m.v.Search() }

// SearchRange attempts to locate a contiguous range of unset bits.
// If ok is true, then all values in the range [index, index + n)
// are suitable for use in a call to m.Set.
// It calls Search if n <= 1.
func (m *Bitm[T]) SearchRange(n int) (index int, ok bool) { return m.v.SearchRange(n) }

// Clear unsets every bit in the map.
func (m *Bitm[T]) Clear() { m.v.Clear() }
