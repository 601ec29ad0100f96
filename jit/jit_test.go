//go:build amd64

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
package jit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bflang/bfdbg/interp"
	"github.com/bflang/bfdbg/tape"
	"github.com/bflang/bfdbg/token"
)

func runJIT(t *testing.T, src, stdin string) (string, *tape.Tape) {
	t.Helper()
	tree, _, err := token.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	tp := tape.New()
	var out bytes.Buffer
	if err := Run(tp, interp.NewWriterOutput(&out), interp.NewReaderInput(strings.NewReader(stdin)), tree); err != nil {
		t.Fatalf("jit run error: %v", err)
	}
	return out.String(), tp
}

func runInterp(t *testing.T, src, stdin string) (string, *tape.Tape) {
	t.Helper()
	tree, _, err := token.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	tp := tape.New()
	var out bytes.Buffer
	ip := interp.New(tp, interp.NewReaderInput(strings.NewReader(stdin)), interp.NewWriterOutput(&out))
	if err := ip.Run(tree); err != nil {
		t.Fatalf("interp run error: %v", err)
	}
	return out.String(), tp
}

// TestJITMatchesInterpreter is spec.md §8's JIT/interpreter equivalence
// property, exercised over three of the scenarios interp_test.go runs
// against the tree-walker plus an input-echo case.
func TestJITMatchesInterpreter(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		stdin string
	}{
		{"hello-char", "++++++++[>+++++++++<-]>.", ""},
		{"nested-loop-clear", "+++[-]", ""},
		{"comments-are-noop", ">/*move*/>+// done\n+", ""},
		{"echo-input", ",.,.", "hi"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			wantOut, wantTape := runInterp(t, c.src, c.stdin)
			gotOut, gotTape := runJIT(t, c.src, c.stdin)
			if gotOut != wantOut {
				t.Fatalf("output = %q, want %q", gotOut, wantOut)
			}
			if gotTape.Head() != wantTape.Head() {
				t.Fatalf("head = %d, want %d", gotTape.Head(), wantTape.Head())
			}
			n := gotTape.Len()
			if wantTape.Len() < n {
				n = wantTape.Len()
			}
			for i := 0; i < n; i++ {
				if gotTape.Read(i) != wantTape.Read(i) {
					t.Fatalf("cell[%d] = %d, want %d", i, gotTape.Read(i), wantTape.Read(i))
				}
			}
		})
	}
}

func TestJITGrowsTapeAcrossManyShifts(t *testing.T) {
	tree, _, err := token.Parse(strings.Repeat(">", 3000) + "+")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	tp := tape.New()
	if err := Run(tp, interp.NewWriterOutput(&bytes.Buffer{}), interp.NewReaderInput(strings.NewReader("")), tree); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if tp.Head() != 3000 {
		t.Fatalf("head = %d, want 3000", tp.Head())
	}
	if tp.Read(3000) != 1 {
		t.Fatalf("cell[3000] = %d, want 1", tp.Read(3000))
	}
}
