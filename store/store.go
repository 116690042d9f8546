// fitz - a device-abstraction graphics pipeline for page-oriented documents
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package store implements the context-wide resource store (§4.12): a
// bounded-size LRU cache of decoded pixmaps, scaled image tiles, and
// similar derived resources, with reference-counted key-storable values
// that never prevent freeing once only their store-key uses remain.
package store

import (
	"sync"

	"golang.org/x/exp/slices"
)

// Key is implemented by anything that can be used as a store key: cached
// decoded tiles are keyed by (image identity, subsample factor), so Key
// implementations are typically small structs wrapping a KeyStorable
// plus extra scalar fields.
type Key interface {
	// Hash returns a hash of the key, or ok=false to decline hashing (the
	// entry then participates only in linear Cmp scans).
	Hash() (h uint64, ok bool)
	// Cmp reports whether this key equals other.
	Cmp(other Key) bool
	// NeedsReap reports whether this key contains a KeyStorable whose
	// main refs have all gone away (only store-key refs remain), making
	// any entry under this key eligible for the reap pass.
	NeedsReap() bool
}

// releaser is an optional extension a Key may implement: Release is
// called exactly once, after the entry it keys has been removed from the
// store (by eviction, reap, or Clear), so a Key wrapping a KeyStorable
// can drop the store-key reference it took when the entry was inserted.
type releaser interface {
	Release()
}

func releaseKey(k Key) {
	if r, ok := k.(releaser); ok {
		r.Release()
	}
}

// KeyStorable is implemented by values that may additionally appear
// inside the keys of other store entries, e.g. an Image used as part of
// the key for its own cached decoded tiles (§4.12, "key-storable").
// A KeyStorable carries two counts: Refs (the main, visible refcount) and
// KeyRefs (how many store keys currently reference it). When Refs has
// reached 0 while KeyRefs > 0, the object is dead everywhere except as
// part of store keys, and is a candidate for reaping.
type KeyStorable interface {
	Refs() int64
	KeyRefs() int64
	KeepKey()
	DropKey() bool
}

// Value is any reference-counted object the store can hold.
type Value interface {
	Keep()
	Drop()
	// Size reports the value's approximate byte footprint, used for the
	// store's size bound and for scavenging decisions.
	Size() int
}

type entry struct {
	key     Key
	value   Value
	size    int
	lastUse int64 // logical clock, not wall time: keeps tests deterministic
}

// Store is a bounded-size LRU of (Key, Value) pairs. It is safe for
// concurrent use: clones of a Context share one Store.
type Store struct {
	maxBytes int64

	mu      sync.Mutex
	entries []*entry
	clock   int64
	used    int64

	deferDepth int
	reapNeeded bool
}

// New creates a Store bounded to maxBytes (0 means unbounded).
func New(maxBytes int64) *Store {
	return &Store{maxBytes: maxBytes}
}

// Find looks up key, bumping its LRU recency and returning Keep()'d value
// on a hit.
func (s *Store) Find(key Key) (Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.key.Cmp(key) {
			e.lastUse = s.tick()
			e.value.Keep()
			return e.value, true
		}
	}
	return nil, false
}

// Insert adds (key, value) to the store, taking a reference to value.
// If a racing caller already inserted an equal key (§4.6 step 8, "racing
// threads tolerated"), Insert drops the caller's value and returns the
// one already present instead.
func (s *Store) Insert(key Key, value Value) Value {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.key.Cmp(key) {
			value.Drop()
			releaseKey(key)
			e.lastUse = s.tick()
			e.value.Keep()
			return e.value
		}
	}

	size := value.Size()
	s.entries = append(s.entries, &entry{
		key:     key,
		value:   value,
		size:    size,
		lastUse: s.tick(),
	})
	s.used += int64(size)
	s.evictIfOverBudget()
	return value
}

func (s *Store) tick() int64 {
	s.clock++
	return s.clock
}

// evictIfOverBudget drops least-recently-used entries until the store
// fits maxBytes. Must be called with s.mu held.
func (s *Store) evictIfOverBudget() {
	if s.maxBytes <= 0 {
		return
	}
	for s.used > s.maxBytes && len(s.entries) > 0 {
		s.evictOneLocked()
	}
}

// evictOneLocked drops the single least-recently-used entry. Must be
// called with s.mu held and len(s.entries) > 0.
func (s *Store) evictOneLocked() {
	idx := 0
	for i, e := range s.entries {
		if e.lastUse < s.entries[idx].lastUse {
			idx = i
		}
	}
	e := s.entries[idx]
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	s.used -= int64(e.size)
	e.value.Drop()
	releaseKey(e.key)
}

// Scavenge tries to free at least size bytes by evicting least-recently
// used entries, continuing a multi-phase policy from phase (§4.12):
// phase 0 evicts entries whose key NeedsReap(), then falls through to
// plain LRU eviction in phase 1, so a soft-evict pass runs before a hard
// one. It returns the phase to resume from and whether anything was
// freed.
func (s *Store) Scavenge(size int, phase int) (nextPhase int, freed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.used
	target := int64(size)

	if phase == 0 {
		s.reapLocked()
		if s.used+target <= s.maxBytes || s.maxBytes <= 0 {
			if before != s.used {
				return 1, true
			}
		}
		phase = 1
	}

	for len(s.entries) > 0 {
		freedBytes := before - s.used
		if s.maxBytes > 0 && freedBytes >= target {
			break
		}
		s.evictOneLocked()
	}
	return phase, before != s.used
}

// DeferReapStart/DeferReapEnd bracket a burst of drops so that a single
// reap pass runs at the end instead of one per drop (§4.12).
func (s *Store) DeferReapStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deferDepth++
}

// MarkReapNeeded flags that a key-storable value has lost its last main
// reference; called by KeyStorable implementations on their final Drop.
func (s *Store) MarkReapNeeded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deferDepth > 0 {
		s.reapNeeded = true
		return
	}
	s.reapLocked()
}

// DeferReapEnd ends a deferred-reap bracket, running a single reap pass
// if any drop inside the bracket requested one.
func (s *Store) DeferReapEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deferDepth--
	if s.deferDepth == 0 && s.reapNeeded {
		s.reapLocked()
		s.reapNeeded = false
	}
}

// reapLocked sweeps the store for entries whose key contains a dead
// key-storable (NeedsReap) and evicts them. Must be called with s.mu
// held.
func (s *Store) reapLocked() {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.key.NeedsReap() {
			s.used -= int64(e.size)
			e.value.Drop()
			releaseKey(e.key)
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
}

// Clear drops every entry, freeing all values. Used when the last
// sibling context closes.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		e.value.Drop()
		releaseKey(e.key)
	}
	s.entries = nil
	s.used = 0
}

// Len reports the number of entries currently held, for tests.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// lruOrder returns entries sorted oldest-first; exposed for tests that
// want to assert eviction order deterministically. Uses x/exp/slices for
// the sort-by-field helper the way golang.org/x/exp is used elsewhere in
// the pack for this class of generic utility.
func (s *Store) lruOrder() []*entry {
	out := append([]*entry(nil), s.entries...)
	slices.SortFunc(out, func(a, b *entry) int {
		switch {
		case a.lastUse < b.lastUse:
			return -1
		case a.lastUse > b.lastUse:
			return 1
		default:
			return 0
		}
	})
	return out
}
