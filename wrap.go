package skein

// Wrap spawns a coroutine and returns a thunk that resumes it once per
// call, reporting the status it settles in. Calling the thunk once the
// coroutine is dead is fatal, as is calling it while the coroutine is
// running.
func (s *Schedule) Wrap(fn Func, ud any) func() Status {
	id := s.New(fn, ud)
	c := s.procs[id]

	return func() Status {
		// the id may have been reused since death, so compare records
		if s.procs[id] != c {
			panic("skein: cannot resume dead coroutine")
		}
		if c.status == Running {
			panic("skein: cannot resume running coroutine")
		}

		s.Resume(id)
		return s.Status(id)
	}
}
