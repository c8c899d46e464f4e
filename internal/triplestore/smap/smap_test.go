package smap_test

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/smap"
)

func ExampleSMap() {
	var mp smap.SMap
	_ = mp.Reset(smap.MemoryMap{})

	// repeated labels keep the id they were first assigned
	for _, name := range []impl.Label{"hello", "world", "earth", "hello", "world"} {
		id, _ := mp.Add(name)
		fmt.Println("add", name, "=>", id)
	}

	earth, _ := mp.Forward("earth")
	mars, _ := mp.Forward("mars")
	fmt.Println("forward earth =>", earth)
	fmt.Println("forward mars =>", mars)

	one, _ := mp.Reverse(1)
	three, _ := mp.Reverse(3)
	fmt.Println("reverse 1 =>", one)
	fmt.Println("reverse 3 =>", three)

	// Output: add hello => ID(1)
	// add world => ID(2)
	// add earth => ID(3)
	// add hello => ID(1)
	// add world => ID(2)
	// forward earth => ID(3)
	// forward mars => ID(0)
	// reverse 1 => hello
	// reverse 3 => earth
}

// label converts i into a short numeric label.
func label(i int) impl.Label {
	return impl.Label(strconv.Itoa(i))
}

// mapTest checks the SMap invariants for a given backend.
func mapTest(t *testing.T, engine smap.Map, n int) {
	t.Helper()

	var mp smap.SMap
	if err := mp.Reset(engine); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := mp.Close(); err != nil {
			t.Fatal(err)
		}
	}()

	// insert all the labels, expecting fresh ids in insertion order
	for i := range n {
		id, old, err := mp.AddNew(label(i))
		if err != nil {
			t.Fatalf("AddNew() error = %s", err)
		}
		if old {
			t.Errorf("AddNew(%d) got old = true, want = false", i)
		}
		if want := impl.ID(i + 1); id != want {
			t.Errorf("AddNew() got id = %s, want = %s", id, want)
		}
	}

	// adding an existing label yields the existing id
	for i := range n {
		id, old, err := mp.AddNew(label(i))
		if err != nil {
			t.Fatalf("AddNew() error = %s", err)
		}
		if !old {
			t.Errorf("AddNew(%d) got old = false, want = true", i)
		}
		if want := impl.ID(i + 1); id != want {
			t.Errorf("AddNew() got id = %s, want = %s", id, want)
		}
	}

	// every label resolves forward to its id
	for i := range n {
		id, err := mp.Forward(label(i))
		if err != nil {
			t.Errorf("Forward() error = %s", err)
		}
		if want := impl.ID(i + 1); id != want {
			t.Errorf("Forward() got = %s, want = %s", id, want)
		}
	}

	// and every id resolves back to its label
	for i := 1; i <= n; i++ {
		got, err := mp.Reverse(impl.ID(i))
		if err != nil {
			t.Errorf("Reverse() error = %s", err)
		}
		if want := label(i - 1); got != want {
			t.Errorf("Reverse() got = %s, want = %s", got, want)
		}
	}

	// a label that was never added has no id
	if _, ok, err := mp.Get("never-added"); err != nil || ok {
		t.Errorf("Get() got = (%v, %v), want = (false, nil)", ok, err)
	}

	count, err := mp.Count()
	if err != nil {
		t.Errorf("Count() error = %s", err)
	}
	if count != uint64(n) {
		t.Errorf("Count() got = %d, want = %d", count, n)
	}
}

func TestMemoryMap(t *testing.T) {
	t.Parallel()

	mapTest(t, smap.MemoryMap{}, 10_000)
}

func TestDiskMap(t *testing.T) {
	t.Parallel()

	mapTest(t, smap.DiskMap{
		Path: t.TempDir(),
	}, 100)
}

// A finalized map refuses further insertions but keeps serving lookups.
func TestSMap_finalize(t *testing.T) {
	t.Parallel()

	var mp smap.SMap
	if err := mp.Reset(smap.MemoryMap{}); err != nil {
		t.Fatal(err)
	}
	defer mp.Close()

	id, err := mp.Add("settled")
	if err != nil {
		t.Fatal(err)
	}

	if err := mp.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %s", err)
	}
	if err := mp.Finalize(); !errors.Is(err, smap.ErrFinalized) {
		t.Errorf("second Finalize() got error %v, want ErrFinalized", err)
	}

	if _, err := mp.Add("more"); !errors.Is(err, smap.ErrFinalized) {
		t.Errorf("Add() after Finalize() got error %v, want ErrFinalized", err)
	}

	got, err := mp.Forward("settled")
	if err != nil || got != id {
		t.Errorf("Forward() after Finalize() got = (%s, %v), want = (%s, nil)", got, err, id)
	}
}
