// Command skeinsh is an interactive shell around one scheduler: spawn
// demo programs as coroutines, resume them step by step, watch their
// statuses.
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/skein-dev/skein"
	"github.com/skein-dev/skein/config"
	"github.com/skein-dev/skein/demo"
)

const help = `commands:
  programs            list available programs
  spawn <program>     spawn a program, prints its id
  resume <id>         resume a coroutine, prints what it emitted
  status <id>         print a coroutine's status
  kill <id>           kill a ready or suspended coroutine
  ls                  list live coroutines
  help                this text
  quit                close the scheduler and exit`

type shell struct {
	s    *skein.Schedule
	outs map[int]*demo.Out
	p    *message.Printer
}

func (sh *shell) checkId(arg string) (id int, ok bool) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 || id >= sh.s.Cap() {
		fmt.Println("invalid coroutine id:", arg)
		return
	}
	return id, true
}

func (sh *shell) spawn(name string) {
	prog, ok := demo.Programs[name]
	if !ok {
		fmt.Println("no such program:", name)
		return
	}

	out := &demo.Out{}
	id := sh.s.New(prog, out)
	sh.outs[id] = out
	fmt.Println("spawned", name, "as coroutine", id)
}

func (sh *shell) resume(arg string) {
	id, ok := sh.checkId(arg)
	if !ok {
		return
	}
	if sh.s.Status(id) == skein.Dead {
		fmt.Println("coroutine", id, "is dead")
		return
	}

	sh.s.Resume(id)
	if out := sh.outs[id]; out != nil {
		for _, v := range out.Drain() {
			fmt.Println(" ", v)
		}
	}

	if st := sh.s.Status(id); st == skein.Dead {
		delete(sh.outs, id)
		fmt.Println("coroutine", id, "finished")
	}
}

func (sh *shell) kill(arg string) {
	id, ok := sh.checkId(arg)
	if !ok {
		return
	}

	sh.s.Kill(id)
	delete(sh.outs, id)
}

func (sh *shell) ls() {
	ids := make([]int, 0, sh.s.Count())
	for id := range sh.s.Cap() {
		if sh.s.Status(id) != skein.Dead {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	for _, id := range ids {
		fmt.Printf("  %d\t%v\n", id, sh.s.Status(id))
	}
	sh.p.Printf("%d live, capacity %d\n", sh.s.Count(), sh.s.Cap())
}

func (sh *shell) run(line string) (quit bool) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
	case "programs":
		names := make([]string, 0, len(demo.Programs))
		for name := range demo.Programs {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println(" ", strings.Join(names, " "))
	case "spawn":
		sh.spawn(arg)
	case "resume":
		sh.resume(arg)
	case "status":
		if id, ok := sh.checkId(arg); ok {
			fmt.Println(sh.s.Status(id))
		}
	case "kill":
		sh.kill(arg)
	case "ls":
		sh.ls()
	case "help":
		fmt.Println(help)
	case "quit", "exit":
		return true
	default:
		fmt.Println("unknown command:", cmd)
	}
	return
}

func main() {
	cfg := config.Default()
	if len(os.Args) > 1 {
		c, err := config.Load(os.Args[1])
		if err != nil {
			fmt.Println("error loading config:", err)
			os.Exit(1)
		}
		cfg = c
	}

	sh := &shell{
		s:    cfg.Open(),
		outs: map[int]*demo.Out{},
		p:    message.NewPrinter(language.English),
	}
	defer sh.s.Close()

	l := liner.NewLiner()
	defer l.Close()
	l.SetCtrlCAborts(true)

	fmt.Println(help)
	for {
		line, err := l.Prompt("skein> ")
		if err != nil {
			fmt.Println()
			return
		}

		l.AppendHistory(line)
		if sh.run(line) {
			return
		}
	}
}
