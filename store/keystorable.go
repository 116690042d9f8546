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

package store

import "sync/atomic"

// RefCount is a small embeddable reference counter for the ordinary
// (non-key-storable) case: one count, dropped to zero frees the value.
// A typed handle for key-only uses is what makes the key-storable case
// (KeyStorableRefCount) hard to misuse by comparison (§9).
type RefCount struct {
	n atomic.Int64
}

// Init sets the initial reference count to 1. Call once at construction.
func (r *RefCount) Init() { r.n.Store(1) }

// Keep increments the reference count.
func (r *RefCount) Keep() { r.n.Add(1) }

// Drop decrements the reference count and reports whether it reached
// zero (the caller should free on true).
func (r *RefCount) Drop() bool { return r.n.Add(-1) == 0 }

// Count returns the current reference count.
func (r *RefCount) Count() int64 { return r.n.Load() }

// KeyStorableRefCount is an embeddable implementation of the KeyStorable
// contract (§4.12): it tracks a main refcount and a separate store-key
// refcount, and notifies a Store when the object becomes reapable (main
// refs all gone, only key refs remain).
type KeyStorableRefCount struct {
	refs    atomic.Int64
	keyRefs atomic.Int64
	store   *Store
}

// InitKeyStorable sets the initial main refcount to 1 and remembers
// which Store to notify when the object becomes reap-eligible.
func (r *KeyStorableRefCount) InitKeyStorable(s *Store) {
	r.refs.Store(1)
	r.store = s
}

func (r *KeyStorableRefCount) Refs() int64    { return r.refs.Load() }
func (r *KeyStorableRefCount) KeyRefs() int64 { return r.keyRefs.Load() }

// Keep increments the main refcount.
func (r *KeyStorableRefCount) Keep() { r.refs.Add(1) }

// Drop decrements the main refcount and reports whether it reached
// zero. When it does and KeyRefs() > 0, the object is not actually freed
// (it survives as part of store keys); instead the Store is notified so
// a reap pass can run.
func (r *KeyStorableRefCount) Drop() bool {
	n := r.refs.Add(-1)
	if n != 0 {
		return false
	}
	if r.keyRefs.Load() > 0 {
		if r.store != nil {
			r.store.MarkReapNeeded()
		}
		return false
	}
	return true
}

// KeepKey increments the store-key refcount.
func (r *KeyStorableRefCount) KeepKey() { r.keyRefs.Add(1) }

// DropKey decrements the store-key refcount. When it reaches zero and
// the main refcount is also already zero, the object is now fully dead;
// callers typically free it at that point.
func (r *KeyStorableRefCount) DropKey() bool {
	n := r.keyRefs.Add(-1)
	return n == 0 && r.refs.Load() == 0
}

// NeedsReap reports whether this object is dead everywhere except as
// part of store keys (main refs exhausted, key refs still positive).
func (r *KeyStorableRefCount) NeedsReap() bool {
	return r.refs.Load() == 0 && r.keyRefs.Load() > 0
}
