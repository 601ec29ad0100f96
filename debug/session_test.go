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
package debug

import (
	"sync"
	"testing"
	"time"
)

func TestRunToCompletionReportsComplete(t *testing.T) {
	sess, err := New("prog.bf", "++++++++[>+++++++++<-]>.")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var mu sync.Mutex
	var stops []StoppedEvent
	var output []byte
	done := make(chan struct{})
	onStopped := func(e StoppedEvent) {
		mu.Lock()
		stops = append(stops, e)
		mu.Unlock()
		if e.Reason == StopComplete {
			close(done)
		}
	}
	onOutput := func(e OutputEvent) {
		if e.Category == OutputStdOut {
			mu.Lock()
			output = append(output, e.Byte)
			mu.Unlock()
		}
	}
	if err := sess.Launch(0, onStopped, onOutput); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if err := sess.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for completion")
	}
	mu.Lock()
	defer mu.Unlock()
	if string(output) != "H" {
		t.Fatalf("output = %q, want %q", output, "H")
	}
	if len(stops) == 0 || stops[len(stops)-1].Reason != StopComplete {
		t.Fatalf("last stop = %+v, want StopComplete", stops[len(stops)-1])
	}
}

func TestBreakpointPausesExecution(t *testing.T) {
	sess, err := New("prog.bf", "++>++")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := sess.AddAndValidateBreakpoint(0, 3); err != nil { // the '+' right after '>'
		t.Fatalf("add breakpoint: %v", err)
	}
	paused := make(chan StoppedEvent, 1)
	if err := sess.Launch(0, func(e StoppedEvent) {
		if e.Reason == StopBreakpoint {
			select {
			case paused <- e:
			default:
			}
		}
	}, func(OutputEvent) {}); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if err := sess.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	select {
	case e := <-paused:
		if e.Pos.Character != 3 {
			t.Fatalf("paused at %v, want column 3", e.Pos)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for breakpoint pause")
	}
	if err := sess.Terminate(); err != nil {
		t.Fatalf("terminate: %v", err)
	}
}

func TestInspectExprReportsHeadLenAndCells(t *testing.T) {
	sess, err := New("prog.bf", "+++")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	done := make(chan struct{})
	if err := sess.Launch(0, func(e StoppedEvent) {
		if e.Reason == StopComplete {
			close(done)
		}
	}, func(OutputEvent) {}); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if err := sess.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
	v, err := sess.InspectExpr("cell[0]")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if v != "3" {
		t.Fatalf("cell[0] = %q, want %q", v, "3")
	}
	if v, err := sess.InspectExpr("head"); err != nil || v != "0" {
		t.Fatalf("head = %q (err %v), want %q", v, err, "0")
	}
	if v, err := sess.InspectExpr("len"); err != nil || v != "1" {
		t.Fatalf("len = %q (err %v), want %q", v, err, "1")
	}
	if err := sess.Terminate(); err != nil {
		t.Fatalf("terminate: %v", err)
	}
}

func TestEvaluateEnqueuesInputBytes(t *testing.T) {
	sess, err := New("prog.bf", ",.,.")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var mu sync.Mutex
	var output []byte
	done := make(chan struct{})
	onStopped := func(e StoppedEvent) {
		if e.Reason == StopComplete {
			close(done)
		}
	}
	onOutput := func(e OutputEvent) {
		if e.Category == OutputStdOut {
			mu.Lock()
			output = append(output, e.Byte)
			mu.Unlock()
		}
	}
	if err := sess.Launch(0, onStopped, onOutput); err != nil {
		t.Fatalf("launch: %v", err)
	}
	// Enqueue both bytes the program will read before Run is called (the
	// worker is already running since Launch and waits in its first ','),
	// exercising evaluate(text)'s "enqueue user-input bytes"
	// contract (spec.md §6.2) rather than a single provided byte.
	if err := sess.Evaluate("AB"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if err := sess.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for completion")
	}
	mu.Lock()
	defer mu.Unlock()
	if string(output) != "AB" {
		t.Fatalf("output = %q, want %q", output, "AB")
	}
	if err := sess.Terminate(); err != nil {
		t.Fatalf("terminate: %v", err)
	}
}

func TestRelaunchAfterTerminateIsAccepted(t *testing.T) {
	sess, err := New("prog.bf", "+")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	done := make(chan struct{}, 2)
	onStopped := func(e StoppedEvent) {
		if e.Reason == StopComplete {
			done <- struct{}{}
		}
	}
	onOutput := func(OutputEvent) {}

	if err := sess.Launch(0, onStopped, onOutput); err != nil {
		t.Fatalf("first launch: %v", err)
	}
	if err := sess.Run(); err != nil {
		t.Fatalf("first run: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first completion")
	}
	if err := sess.Terminate(); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if err := sess.Run(); err != ErrNotLaunched {
		t.Fatalf("run after terminate = %v, want ErrNotLaunched", err)
	}

	if err := sess.Launch(0, onStopped, onOutput); err != nil {
		t.Fatalf("relaunch: %v", err)
	}
	if err := sess.Run(); err != nil {
		t.Fatalf("second run: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for second completion")
	}
	if err := sess.Terminate(); err != nil {
		t.Fatalf("second terminate: %v", err)
	}
}
