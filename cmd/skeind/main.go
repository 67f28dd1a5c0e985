// Command skeind serves the coroutine runtime over HTTP: it keeps a
// registry of demo programs and a set of per-session schedulers
// addressed by id, and exposes spawn/resume/status as endpoints.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/skein-dev/skein"
	"github.com/skein-dev/skein/config"
	"github.com/skein-dev/skein/demo"
)

// session owns one scheduler. A scheduler is single-carrier, so every
// operation is funnelled through ops and runs on the session's own
// goroutine, whatever handler it came from.
type session struct {
	s    *skein.Schedule
	outs map[int]*demo.Out
	ops  chan func()
}

func newSession(cfg config.Config) *session {
	ses := &session{
		s:    cfg.Open(),
		outs: map[int]*demo.Out{},
		ops:  make(chan func()),
	}

	go func() {
		for op := range ses.ops {
			op()
		}
		ses.s.Close()
	}()

	return ses
}

// do runs op on the session's carrier and waits for it to finish.
func (ses *session) do(op func()) {
	done := make(chan struct{})
	ses.ops <- func() {
		op()
		close(done)
	}
	<-done
}

type server struct {
	cfg config.Config

	mu       sync.Mutex
	sessions map[string]*session
}

func (sv *server) session(w http.ResponseWriter, sid string) (ses *session, ok bool) {
	sv.mu.Lock()
	ses, ok = sv.sessions[sid]
	sv.mu.Unlock()

	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
	}
	return
}

// ensure id is a valid in-range coroutine id for the session
func checkId(w http.ResponseWriter, ses *session, id string) (n int, ok bool) {
	n, err := strconv.Atoi(id)
	if err != nil || n < 0 {
		http.Error(w, "Invalid coroutine id", http.StatusBadRequest)
		return
	}

	var tcap int
	ses.do(func() { tcap = ses.s.Cap() })
	if n >= tcap {
		http.Error(w, "Coroutine id out of range", http.StatusNotFound)
		return
	}

	return n, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("error encoding response:", err)
	}
}

func main() {
	confPath := flag.String("config", "skeind.hujson", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*confPath)
	if err != nil {
		log.Fatalln("error loading config:", err)
	}

	sv := &server{cfg: cfg, sessions: map[string]*session{}}

	// create a scheduler session
	http.HandleFunc("PUT /schedulers", func(w http.ResponseWriter, r *http.Request) {
		sid := uuid.NewString()

		sv.mu.Lock()
		sv.sessions[sid] = newSession(sv.cfg)
		sv.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{"sid": sid})
	})

	// close a session and every coroutine under it
	http.HandleFunc("DELETE /schedulers/{sid}", func(w http.ResponseWriter, r *http.Request) {
		sid := r.PathValue("sid")

		sv.mu.Lock()
		ses, ok := sv.sessions[sid]
		delete(sv.sessions, sid)
		sv.mu.Unlock()

		if !ok {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}

		close(ses.ops)
		w.WriteHeader(http.StatusNoContent)
	})

	// list registered programs
	http.HandleFunc("GET /programs", func(w http.ResponseWriter, r *http.Request) {
		names := make([]string, 0, len(demo.Programs))
		for name := range demo.Programs {
			names = append(names, name)
		}
		writeJSON(w, map[string]any{"programs": names})
	})

	// spawn a program as a new coroutine
	http.HandleFunc("POST /schedulers/{sid}/spawn/{program}", func(w http.ResponseWriter, r *http.Request) {
		ses, ok := sv.session(w, r.PathValue("sid"))
		if !ok {
			return
		}

		prog, ok := demo.Programs[r.PathValue("program")]
		if !ok {
			http.Error(w, "Program not found", http.StatusNotFound)
			return
		}

		var id int
		ses.do(func() {
			out := &demo.Out{}
			id = ses.s.New(prog, out)
			ses.outs[id] = out
		})

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{"id": id})
	})

	// resume a coroutine, returning what it emitted
	http.HandleFunc("POST /schedulers/{sid}/resume/{id}", func(w http.ResponseWriter, r *http.Request) {
		ses, ok := sv.session(w, r.PathValue("sid"))
		if !ok {
			return
		}
		id, ok := checkId(w, ses, r.PathValue("id"))
		if !ok {
			return
		}

		var (
			emitted []string
			status  skein.Status
		)
		ses.do(func() {
			ses.s.Resume(id)
			status = ses.s.Status(id)

			if out := ses.outs[id]; out != nil {
				emitted = out.Drain()
			}
			if status == skein.Dead {
				delete(ses.outs, id)
			}
		})

		writeJSON(w, map[string]any{
			"emitted": emitted,
			"status":  status.String(),
		})
	})

	// kill a coroutine
	http.HandleFunc("POST /schedulers/{sid}/kill/{id}", func(w http.ResponseWriter, r *http.Request) {
		ses, ok := sv.session(w, r.PathValue("sid"))
		if !ok {
			return
		}
		id, ok := checkId(w, ses, r.PathValue("id"))
		if !ok {
			return
		}

		ses.do(func() {
			ses.s.Kill(id)
			delete(ses.outs, id)
		})

		w.WriteHeader(http.StatusNoContent)
	})

	// coroutine status
	http.HandleFunc("GET /schedulers/{sid}/coroutines/{id}", func(w http.ResponseWriter, r *http.Request) {
		ses, ok := sv.session(w, r.PathValue("sid"))
		if !ok {
			return
		}
		id, ok := checkId(w, ses, r.PathValue("id"))
		if !ok {
			return
		}

		var status skein.Status
		ses.do(func() { status = ses.s.Status(id) })

		writeJSON(w, map[string]any{"status": status.String()})
	})

	// scheduler overview
	http.HandleFunc("GET /schedulers/{sid}", func(w http.ResponseWriter, r *http.Request) {
		ses, ok := sv.session(w, r.PathValue("sid"))
		if !ok {
			return
		}

		var running, count, tcap int
		ses.do(func() {
			running = ses.s.Running()
			count = ses.s.Count()
			tcap = ses.s.Cap()
		})

		writeJSON(w, map[string]any{
			"running": running,
			"count":   count,
			"cap":     tcap,
		})
	})

	fmt.Println("skeind listening on", cfg.Listen)
	log.Fatalln(http.ListenAndServe(cfg.Listen, nil))
}
