package skein

import (
	"fmt"

	"github.com/skein-dev/skein/internal/mctx"
)

// proc is the per-coroutine record. The scheduler owns it; it borrows
// the scheduler.
type proc struct {
	fn      Func
	ud      any
	ctx     *mctx.Context
	sch     *Schedule
	status  Status
	killing bool
}

// New spawns a coroutine in the ready state and returns its id. The
// entry function does not run until the first Resume. Ids are stable
// for the coroutine's lifetime and may be reused after it dies.
func (s *Schedule) New(fn Func, ud any) int {
	c := &proc{
		fn:     fn,
		ud:     ud,
		ctx:    mctx.New(),
		sch:    s,
		status: Ready,
	}

	tcap := len(s.procs)
	if s.count >= tcap {
		s.procs = append(s.procs, make([]*proc, tcap)...)
		s.procs[tcap] = c
		s.count++
		return tcap
	}

	for i := range tcap {
		// scanning from just past the live count spreads reuse and
		// biases toward the lowest free id after deaths
		id := (i + s.count) % tcap
		if s.procs[id] == nil {
			s.procs[id] = c
			s.count++
			return id
		}
	}

	panic("skein: no free slot below count") // unreachable
}

// Kill destroys a ready or suspended coroutine. A suspended
// coroutine's stack is unwound, so its pending defers run; resources
// it acquired without a defer leak. Killing a dead id is a no-op. Kill
// must be called on the main context.
func (s *Schedule) Kill(id int) {
	if s.running != None {
		panic("skein: kill while a coroutine is running")
	}
	if id < 0 || id >= len(s.procs) {
		panic(fmt.Sprintf("skein: coroutine id %d out of range", id))
	}

	c := s.procs[id]
	if c == nil {
		return
	}

	if c.status == Suspended {
		s.unwind(id)
	}
	s.procs[id] = nil
	s.count--
}

// unwind wakes a suspended coroutine with a kill signal and waits for
// its carrier to finish unwinding. The coroutine is on the carrier
// while its defers run, so running is set for the duration.
func (s *Schedule) unwind(id int) {
	c := s.procs[id]
	c.killing = true
	s.running = id
	mctx.SwapKill(s.main, c.ctx)
	s.running = None
}
