// Package skein implements a single-threaded cooperative coroutine
// runtime: many logical tasks multiplexed over one carrier of
// execution, with control moving only at explicit resume and yield
// points.
//
// Every transition passes through the scheduler's main context. The
// caller, on the main context, resumes a coroutine by id; the coroutine
// runs until it yields back or its entry function returns. Idle
// coroutines keep only the memory their live state actually needs.
//
// A Schedule is owned by one goroutine from Open to Close and is not
// safe for concurrent use.
package skein

import (
	"fmt"
	"runtime/debug"

	"github.com/skein-dev/skein/internal/mctx"
)

const (
	// StackSize is the default per-coroutine stack ceiling in bytes.
	StackSize = 1 << 20

	// DefaultCap is the initial capacity of the coroutine table.
	DefaultCap = 16

	// None is returned by Running when no coroutine holds the carrier.
	None = -1
)

// Status represents the lifecycle state of a coroutine.
type Status uint8

const (
	Dead Status = iota
	Ready
	Running
	Suspended
)

func (st Status) String() string {
	switch st {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	}
	return "dead"
}

// Func is a coroutine entry function. ud is the opaque user data the
// coroutine was spawned with; the runtime never inspects it.
type Func func(s *Schedule, ud any)

// Schedule multiplexes coroutines over a single carrier of execution.
type Schedule struct {
	main    *mctx.Context
	procs   []*proc // indexed by coroutine id, nil slots are dead
	count   int
	running int
	prevMax int
}

// Open returns a scheduler with the default stack ceiling and table
// capacity. No coroutines exist yet.
func Open() *Schedule {
	return OpenWith(StackSize, DefaultCap)
}

// OpenWith is Open with an explicit stack ceiling and initial table
// capacity. The ceiling applies to every coroutine spawned under the
// scheduler; the previous process-wide ceiling is restored by Close.
func OpenWith(stackSize, tableCap int) *Schedule {
	if stackSize <= 0 {
		panic(fmt.Sprintf("skein: invalid stack size %d", stackSize))
	}
	if tableCap <= 0 {
		panic(fmt.Sprintf("skein: invalid table capacity %d", tableCap))
	}

	return &Schedule{
		main:    mctx.New(),
		procs:   make([]*proc, tableCap),
		running: None,
		prevMax: debug.SetMaxStack(stackSize),
	}
}

// Close destroys every remaining coroutine and the scheduler itself.
// Suspended coroutines are unwound so their carriers terminate; their
// pending defers run, but nothing else of their entry functions does.
// The scheduler must not be used afterwards.
func (s *Schedule) Close() {
	if s.running != None {
		panic("skein: close while a coroutine is running")
	}

	for id, c := range s.procs {
		if c == nil {
			continue
		}

		if c.status == Suspended {
			s.unwind(id)
		}
		s.procs[id] = nil
		s.count--
	}

	debug.SetMaxStack(s.prevMax)
	s.procs = nil
}

// Resume transfers control to the coroutine id until it yields or its
// entry function returns. It must be called on the main context;
// resuming from inside a coroutine is fatal. Resuming a dead id is a
// no-op.
func (s *Schedule) Resume(id int) {
	if s.running != None {
		panic("skein: resume while a coroutine is running")
	}
	if id < 0 || id >= len(s.procs) {
		panic(fmt.Sprintf("skein: coroutine id %d out of range", id))
	}

	c := s.procs[id]
	if c == nil {
		return
	}

	switch c.status {
	case Ready:
		c.ctx.Launch(s.main, s.enter)
	case Suspended:
		// the parked carrier still holds its live frames; nothing to
		// restore
	default:
		panic(fmt.Sprintf("skein: resume of %v coroutine %d", c.status, id))
	}

	c.status = Running
	s.running = id
	mctx.Swap(s.main, c.ctx)
}

// enter runs on a coroutine's own carrier. Once the entry function
// returns, the record is destroyed before the successor link hands
// control back to main.
func (s *Schedule) enter() {
	id := s.running
	c := s.procs[id]

	c.fn(c.sch, c.ud)

	s.procs[id] = nil
	s.count--
	s.running = None
}

// Yield suspends the running coroutine and returns control to the
// caller of Resume. Calling Yield outside a coroutine is fatal.
func (s *Schedule) Yield() {
	id := s.running
	if id == None {
		panic("skein: yield outside a coroutine")
	}

	c := s.procs[id]
	if c.killing {
		// teardown already in progress, a defer has yielded again
		mctx.Unwind()
	}

	c.status = Suspended
	s.running = None
	if mctx.Swap(c.ctx, s.main) {
		mctx.Unwind()
	}
}

// Status reports the lifecycle state of the coroutine id. Cleared and
// never-populated slots are Dead.
func (s *Schedule) Status(id int) Status {
	if id < 0 || id >= len(s.procs) {
		panic(fmt.Sprintf("skein: coroutine id %d out of range", id))
	}

	if c := s.procs[id]; c != nil {
		return c.status
	}
	return Dead
}

// Running returns the id of the running coroutine, or None when the
// main context holds the carrier.
func (s *Schedule) Running() int {
	return s.running
}

// Count returns the number of live coroutines.
func (s *Schedule) Count() int {
	return s.count
}

// Cap returns the current capacity of the coroutine table.
func (s *Schedule) Cap() int {
	return len(s.procs)
}
