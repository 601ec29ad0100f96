/*
Copyright (C) 2024-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// bfdbg is the command-line entry point: run a Brainfuck program under
// the plain interpreter, the JIT, or the auto-JIT dispatcher, or drive
// a debug.Session interactively. Replaces the teacher's trivial
// Repl()-only main.go with a real flag surface, grounded on
// google-kati/golang/cmd/kati/main.go's hand-rolled flag.FlagSet use for
// --mode/--file/-v, plus docker/go-units for human-readable tape-size
// limits and dc0d/onexit for graceful teardown.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/dc0d/onexit"
	units "github.com/docker/go-units"

	"github.com/bflang/bfdbg/autojit"
	"github.com/bflang/bfdbg/debug"
	"github.com/bflang/bfdbg/interp"
	"github.com/bflang/bfdbg/internal/logging"
	"github.com/bflang/bfdbg/internal/trace"
	"github.com/bflang/bfdbg/jit"
	"github.com/bflang/bfdbg/tape"
	"github.com/bflang/bfdbg/token"
)

func main() {
	mode := flag.String("mode", "autojit", "execution mode: interpret, jit, or autojit")
	file := flag.String("file", "", "path to a .bf source file")
	maxTape := flag.String("max-tape", "", "maximum tape size, e.g. 64MB (default: unbounded)")
	tracePath := flag.String("trace", "", "write a chrome-trace JSON timeline of auto-JIT decisions to this path")
	debugMode := flag.Bool("debug", false, "start an interactive debug REPL instead of running to completion")
	flag.Parse()

	onexit.Register(logging.Flush)
	defer logging.Flush()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "bfdbg: -file is required")
		os.Exit(2)
	}
	src, err := os.ReadFile(*file)
	if err != nil {
		logging.Error("reading %s: %v", *file, err)
		os.Exit(1)
	}

	maxCells, err := parseMaxTape(*maxTape)
	if err != nil {
		logging.Error("parsing -max-tape %q: %v", *maxTape, err)
		os.Exit(2)
	}

	if *debugMode {
		if err := runDebugREPL(*file, string(src), maxCells); err != nil {
			logging.Error("%v", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*mode, string(src), maxCells, *tracePath); err != nil {
		logging.Error("%v", err)
		os.Exit(1)
	}
}

// parseMaxTape turns a human-readable size like "64MB" into a cell count
// via docker/go-units' RAMInBytes, the same parser Docker's own --memory
// flag uses. An empty string means unbounded (maxCells == 0).
func parseMaxTape(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func run(mode, src string, maxCells int, tracePath string) error {
	tree, _, err := token.Parse(src)
	if err != nil {
		return err
	}

	tp := newTape(maxCells)
	out := interp.NewWriterOutput(os.Stdout)
	in := interp.NewReaderInput(os.Stdin)

	switch mode {
	case "interpret":
		ip := interp.New(tp, in, out)
		return ip.Run(tree)
	case "jit":
		return jit.Run(tp, out, in, tree)
	case "autojit":
		d := autojit.New(tp, in, out)
		defer d.Close()
		if tracePath != "" {
			tf, err := trace.Create(tracePath)
			if err != nil {
				return err
			}
			defer tf.Close()
			d.Trace = tf
		}
		return d.Run(tree)
	default:
		return fmt.Errorf("bfdbg: unknown -mode %q (want interpret, jit, or autojit)", mode)
	}
}

func newTape(maxCells int) *tape.Tape {
	if maxCells > 0 {
		return tape.NewBounded(maxCells)
	}
	return tape.New()
}

const (
	replPrompt     = "\033[32m(bfdbg)\033[0m "
	replStopPrompt = "\033[31m=\033[0m "
)

// runDebugREPL drives a debug.Session interactively, in the manner of
// scm/prompt.go's Repl: a chzyer/readline loop with an anti-panic
// recover wrapper around each command, printing stop/output events as
// they arrive from the session's worker goroutine.
func runDebugREPL(filename, src string, maxCells int) error {
	sess, err := debug.New(filename, src)
	if err != nil {
		return err
	}

	l, err := readline.NewEx(&readline.Config{
		Prompt:            replPrompt,
		HistoryFile:       ".bfdbg-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()

	onStopped := func(e debug.StoppedEvent) {
		fmt.Fprintf(l.Stderr(), "%sstopped: %s at %s\n", replStopPrompt, e.Reason, e.Pos)
	}
	onOutput := func(e debug.OutputEvent) {
		switch e.Category {
		case debug.OutputStdOut:
			fmt.Fprintf(l, "%c", e.Byte)
		case debug.OutputConsole:
			fmt.Fprintf(l.Stderr(), "%s%s\n", replStopPrompt, e.Message)
		}
	}

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		runDebugCommand(sess, l, line, maxCells, onStopped, onOutput)
	}
	return sess.Terminate()
}

// runDebugCommand dispatches one REPL line, recovering from any panic so
// a bad command doesn't kill the whole session (scm/prompt.go's
// anti-panic func precedent).
func runDebugCommand(sess *debug.Session, l *readline.Instance, line string, maxCells int, onStopped debug.StoppedFunc, onOutput debug.OutputFunc) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(l.Stderr(), "panic: %v\n", r)
		}
	}()

	var cmd string
	var arg string
	fmt.Sscanf(line, "%s %s", &cmd, &arg)

	switch cmd {
	case "break", "b":
		var lineNo, col int
		col = -1
		if _, err := fmt.Sscanf(line, "%s %d:%d", &cmd, &lineNo, &col); err != nil {
			if _, err := fmt.Sscanf(line, "%s %d", &cmd, &lineNo); err != nil {
				fmt.Fprintln(l.Stderr(), "usage: break LINE[:COLUMN]")
				return
			}
		}
		bp, err := sess.AddAndValidateBreakpoint(lineNo, col)
		if err != nil {
			fmt.Fprintln(l.Stderr(), err)
			return
		}
		fmt.Fprintf(l, "breakpoint %d set at %s\n", bp.ID, bp.Pos)
	case "launch":
		if err := sess.Launch(maxCells, onStopped, onOutput); err != nil {
			fmt.Fprintln(l.Stderr(), err)
		}
	case "run", "r":
		if err := sess.Run(); err != nil {
			fmt.Fprintln(l.Stderr(), err)
		}
	case "next", "n":
		if err := sess.Next(); err != nil {
			fmt.Fprintln(l.Stderr(), err)
		}
	case "pause":
		if err := sess.Pause(); err != nil {
			fmt.Fprintln(l.Stderr(), err)
		}
	case "vars":
		v, err := sess.GetVariables()
		if err != nil {
			fmt.Fprintln(l.Stderr(), err)
			return
		}
		fmt.Fprintf(l, "head=%d len=%d cells=%v\n", v.Head, v.Len, v.Cells)
	case "print", "p":
		v, err := sess.InspectExpr(arg)
		if err != nil {
			fmt.Fprintln(l.Stderr(), err)
			return
		}
		fmt.Fprintln(l, v)
	case "input", "evaluate":
		if len(arg) == 0 {
			fmt.Fprintln(l.Stderr(), "usage: input TEXT")
			return
		}
		if err := sess.Evaluate(arg); err != nil {
			fmt.Fprintln(l.Stderr(), err)
		}
	case "quit", "q":
		if err := sess.Terminate(); err != nil {
			fmt.Fprintln(l.Stderr(), err)
		}
	default:
		fmt.Fprintf(l.Stderr(), "unknown command %q\n", cmd)
	}
}
