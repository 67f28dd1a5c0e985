package mctx

import (
	"strings"
	"testing"
)

func TestLaunchAndSwap(t *testing.T) {
	main, co := New(), New()

	b := strings.Builder{}
	co.Launch(main, func() {
		b.WriteString("a")
		if Swap(co, main) {
			t.Error("unexpected kill")
		}
		b.WriteString("c")
	})

	Swap(main, co)
	b.WriteString("b")
	Swap(main, co)

	if out := b.String(); out != "abc" {
		t.Fatal("bad transfer order:", out)
	}
}

// the successor link fires even when the entry function never parks
func TestSuccessorLink(t *testing.T) {
	main, co := New(), New()

	ran := false
	co.Launch(main, func() { ran = true })

	Swap(main, co)
	if !ran {
		t.Fatal("entry function did not run")
	}
}

func TestKillAtFirstEntry(t *testing.T) {
	main, co := New(), New()

	co.Launch(main, func() {
		t.Error("killed context ran its entry function")
	})

	SwapKill(main, co)
}

func TestKillAtPark(t *testing.T) {
	main, co := New(), New()

	unwound := false
	co.Launch(main, func() {
		defer func() { unwound = true }()

		if Swap(co, main) {
			Unwind()
		}
		t.Error("carrier survived kill")
	})

	Swap(main, co)
	SwapKill(main, co)

	if !unwound {
		t.Fatal("defer did not run during unwind")
	}
}

func TestChainedContexts(t *testing.T) {
	main, a, b := New(), New(), New()

	order := strings.Builder{}
	a.Launch(main, func() {
		order.WriteString("a1 ")
		Swap(a, main)
		order.WriteString("a2")
	})
	b.Launch(main, func() {
		order.WriteString("b1 ")
		Swap(b, main)
		order.WriteString("b2 ")
	})

	Swap(main, a)
	Swap(main, b)
	Swap(main, b)
	Swap(main, a)

	if out := order.String(); out != "a1 b1 b2 a2" {
		t.Fatal("bad order:", out)
	}
}
