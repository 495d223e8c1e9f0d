package history

import (
	"slices"
	"testing"
)

func TestMultiMapOrdering(t *testing.T) {
	m := NewMultiMap[uint32, string]()
	m.Insert(200, "b1")
	m.Insert(100, "a1")
	m.Insert(300, "c1")
	m.Insert(100, "a2")
	m.Insert(200, "b2")

	if got := m.Keys(); !slices.Equal(got, []uint32{100, 200, 300}) {
		t.Errorf("Keys() = %v, want [100 200 300]", got)
	}
	if got := m.Get(100); !slices.Equal(got, []string{"a1", "a2"}) {
		t.Errorf("Get(100) = %v, want [a1 a2]", got)
	}
	if m.Len() != 5 {
		t.Errorf("Len() = %d, want 5", m.Len())
	}

	var got []string
	for _, v := range m.All() {
		got = append(got, v)
	}
	if want := []string{"a1", "a2", "b1", "b2", "c1"}; !slices.Equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestMultiMapInsertAfterIteration(t *testing.T) {
	m := NewMultiMap[int, string]()
	m.Insert(5, "five")
	_ = m.Keys()
	m.Insert(1, "one")

	if got := m.Keys(); !slices.Equal(got, []int{1, 5}) {
		t.Errorf("Keys() = %v, want [1 5]", got)
	}
}

func TestMultiMapEmpty(t *testing.T) {
	m := NewMultiMap[int, string]()
	if len(m.Keys()) != 0 || m.Len() != 0 || m.Get(1) != nil {
		t.Error("expected empty map")
	}
	for range m.All() {
		t.Fatal("All() yielded from an empty map")
	}
}

func TestFlaggedSet(t *testing.T) {
	rules := DefaultRules()
	f := NewFlaggedSet()

	if !f.Add(rules.Flag[1], "ssh host\n") {
		t.Error("first Add() = false, want true")
	}
	if f.Add(rules.Flag[1], "ssh host\n") {
		t.Error("repeated Add() = true, want false")
	}
	f.Add(rules.Flag[0], "login password=XXX\n")

	want := []string{
		"Flagged for 'password': login password=XXX",
		"Flagged for 'ssh': ssh host",
	}
	if got := f.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %q, want %q", got, want)
	}
	if f.Len() != 2 {
		t.Errorf("Len() = %d, want 2", f.Len())
	}
}
