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

import (
	"testing"
)

type testKey struct {
	id int
}

func (k testKey) Hash() (uint64, bool) { return uint64(k.id), true }
func (k testKey) Cmp(other Key) bool {
	o, ok := other.(testKey)
	return ok && o.id == k.id
}
func (k testKey) NeedsReap() bool { return false }

type testValue struct {
	drops *int
	size  int
}

func (v *testValue) Keep()     {}
func (v *testValue) Drop()     { *v.drops++ }
func (v *testValue) Size() int { return v.size }

func TestStoreFindInsert(t *testing.T) {
	s := New(0)
	var drops int
	v := &testValue{drops: &drops, size: 10}
	got := s.Insert(testKey{1}, v)
	if got != v {
		t.Fatal("Insert should return the inserted value on first insert")
	}

	found, ok := s.Find(testKey{1})
	if !ok || found != v {
		t.Fatal("Find should locate the inserted entry")
	}
	if _, ok := s.Find(testKey{2}); ok {
		t.Fatal("Find should miss on an absent key")
	}
}

func TestStoreInsertRace(t *testing.T) {
	s := New(0)
	var drops1, drops2 int
	v1 := &testValue{drops: &drops1, size: 10}
	v2 := &testValue{drops: &drops2, size: 10}

	s.Insert(testKey{1}, v1)
	got := s.Insert(testKey{1}, v2)
	if got != v1 {
		t.Fatal("a racing insert of an equal key should keep the first value")
	}
	if drops2 != 1 {
		t.Fatalf("the losing racer's value should be dropped, got %d drops", drops2)
	}
	if s.Len() != 1 {
		t.Fatalf("store should have exactly one entry, got %d", s.Len())
	}
}

func TestStoreEviction(t *testing.T) {
	s := New(25)
	var drops [3]int
	for i := 0; i < 3; i++ {
		s.Insert(testKey{i}, &testValue{drops: &drops[i], size: 10})
	}
	// budget 25 bytes / 10 bytes per entry: at most 2 entries fit, so the
	// least-recently-used one (id 0) must have been evicted already.
	if s.Len() > 2 {
		t.Fatalf("store should have evicted down to budget, has %d entries", s.Len())
	}
	if drops[0] == 0 {
		t.Fatal("oldest entry should have been evicted and dropped")
	}
}

func TestScavengeFreesMemory(t *testing.T) {
	s := New(1000)
	for i := 0; i < 10; i++ {
		var drops int
		s.Insert(testKey{i}, &testValue{drops: &drops, size: 50})
	}
	_, freed := s.Scavenge(200, 0)
	if !freed {
		t.Fatal("Scavenge should report it freed something when entries exist")
	}
}

func TestRefCountConservation(t *testing.T) {
	// Deterministic balanced keep/drop sequence (§8.1): every successful
	// keep/drop pair must leave the object alive until the matching final
	// drop, and dead afterwards.
	var r RefCount
	r.Init()
	ops := []int{1, 1, -1, 1, -1, -1, -1} // three keeps, four drops: Init's ref goes last, ends at 0
	for _, op := range ops {
		if op > 0 {
			r.Keep()
		} else {
			r.Drop()
		}
	}
	if r.Count() != 0 {
		t.Fatalf("balanced keep/drop sequence should end at 0 refs, got %d", r.Count())
	}
}

func TestKeyStorableReap(t *testing.T) {
	s := New(0)
	var ks KeyStorableRefCount
	ks.InitKeyStorable(s)
	ks.KeepKey() // one store-key reference

	if freed := ks.Drop(); freed {
		t.Fatal("dropping the main ref while a key ref remains must not report freed")
	}
	if !ks.NeedsReap() {
		t.Fatal("object with zero main refs and a live key ref should need reaping")
	}

	if freed := ks.DropKey(); !freed {
		t.Fatal("dropping the last key ref after refs hit zero should report freed")
	}
}
