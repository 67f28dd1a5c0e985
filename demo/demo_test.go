package demo

import (
	"strings"
	"testing"

	"github.com/skein-dev/skein"
)

// drive runs a program to completion, collecting everything it emits.
func drive(t *testing.T, name string) []string {
	t.Helper()

	prog, ok := Programs[name]
	if !ok {
		t.Fatal("no such program:", name)
	}

	s := skein.Open()
	defer s.Close()

	out := &Out{}
	id := s.New(prog, out)

	var all []string
	for s.Status(id) != skein.Dead {
		s.Resume(id)
		all = append(all, out.Drain()...)
	}
	return all
}

func TestCounter(t *testing.T) {
	all := drive(t, "counter")

	want := []string{"count 1", "count 2", "count 3", "count 4", "count 5", "done"}
	if len(all) != len(want) {
		t.Fatal("bad output:", all)
	}
	for i, v := range want {
		if all[i] != v {
			t.Fatal("bad output at", i, ":", all[i])
		}
	}
}

func TestSquares(t *testing.T) {
	all := drive(t, "squares")

	if len(all) != 8 || all[0] != "1" || all[7] != "64" {
		t.Fatal("bad output:", all)
	}
}

func TestFib(t *testing.T) {
	all := drive(t, "fib")

	if len(all) < 10 || all[0] != "0" || all[1] != "1" || all[9] != "34" {
		t.Fatal("bad output:", all)
	}
}

func TestDeep(t *testing.T) {
	all := drive(t, "deep")

	if len(all) != 1 || !strings.HasPrefix(all[0], "unwound clean") {
		t.Fatal("bad output:", all)
	}
}

func TestDrainClears(t *testing.T) {
	out := &Out{}
	out.Emit("a")

	if v := out.Drain(); len(v) != 1 || v[0] != "a" {
		t.Fatal("bad drain:", v)
	}
	if v := out.Drain(); v != nil {
		t.Fatal("drain did not clear:", v)
	}
}
