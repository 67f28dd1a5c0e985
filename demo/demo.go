// Package demo contains the example coroutine programs served by the
// inspector daemon and the shell. Each program emits values into the
// Out it was spawned with and yields between them.
package demo

import (
	"fmt"

	"github.com/skein-dev/skein"
)

// Out collects the values a program emits between resumes.
type Out struct {
	vals []string
}

func (o *Out) Emit(a ...any) {
	o.vals = append(o.vals, fmt.Sprint(a...))
}

// Drain returns the values emitted since the last call and clears
// them.
func (o *Out) Drain() []string {
	v := o.vals
	o.vals = nil
	return v
}

// Programs maps registered program names to their entry functions.
// Every program expects a *Out as its user data.
var Programs = map[string]skein.Func{
	"counter": counter,
	"squares": squares,
	"fib":     fib,
	"deep":    deep,
}

// counter counts to five, one step per resume.
func counter(s *skein.Schedule, ud any) {
	out := ud.(*Out)

	for i := 1; i <= 5; i++ {
		out.Emit("count ", i)
		s.Yield()
	}
	out.Emit("done")
}

// squares emits the first eight squares, one per resume.
func squares(s *skein.Schedule, ud any) {
	out := ud.(*Out)

	for i := 1; i <= 8; i++ {
		out.Emit(i * i)
		s.Yield()
	}
}

// fib emits fibonacci numbers below one million, one per resume.
func fib(s *skein.Schedule, ud any) {
	out := ud.(*Out)

	for a, b := 0, 1; a < 1_000_000; a, b = b, a+b {
		out.Emit(a)
		s.Yield()
	}
}

const deepDepth = 2048

// deep recurses a few thousand frames, yields at the bottom, then
// checks its locals all the way back up. Exercises suspension under a
// large live stack.
func deep(s *skein.Schedule, ud any) {
	out := ud.(*Out)

	if sink := dig(s, deepDepth); sink != deepDepth*(deepDepth+1)/2 {
		out.Emit("corrupt unwind: ", sink)
		return
	}
	out.Emit("unwound clean from depth ", deepDepth)
}

func dig(s *skein.Schedule, n int) int {
	var pad [32]int // fatten the frame
	pad[0] = n
	if n == 0 {
		s.Yield()
		return 0
	}
	return pad[0] + dig(s, n-1)
}
