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

// Package trace emits a Chrome Trace Event Format JSON log (the format
// chrome://tracing and Perfetto both read) of the auto-JIT dispatcher's
// decisions: when a loop goes hot, when its compile request begins and
// ends, and when the compiled routine starts serving invocations. Direct
// adaptation of scm/trace.go's Tracefile, repointed at --trace output
// instead of the MEMCP_TRACEDIR env var.
package trace

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// File is an open chrome-trace JSON array; write events to it with
// Event/Duration, then Close to cap off the array.
type File struct {
	mu      sync.Mutex
	w       io.WriteCloser
	isFirst bool
	start   time.Time
}

// Create opens path and writes the opening "[" of a chrome-trace array.
func Create(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if _, err := f.Write([]byte("[")); err != nil {
		f.Close()
		return nil, err
	}
	return &File{w: f, isFirst: true, start: time.Now()}, nil
}

// Close writes the closing "]" and closes the underlying file.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.w.Write([]byte("]"))
	return f.w.Close()
}

// Event emits an instantaneous event ("i" phase) — used for the
// auto-JIT's "hot:<key>" and "installed:<key>" events.
func (f *File) Event(name, category string) {
	f.write(name, category, "i")
}

// Duration runs fn, bracketing it with "B"/"E" (begin/end) events — used
// to bound a loop's compile-in-background work.
func (f *File) Duration(name, category string, fn func()) {
	f.write(name, category, "B")
	defer f.write(name, category, "E")
	fn()
}

func (f *File) write(name, category, phase string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev := struct {
		Name string `json:"name"`
		Cat  string `json:"cat"`
		Ph   string `json:"ph"`
		TS   int64  `json:"ts"`
		PID  int    `json:"pid"`
		TID  int    `json:"tid"`
	}{Name: name, Cat: category, Ph: phase, TS: time.Since(f.start).Microseconds(), PID: 0, TID: 0}
	if !f.isFirst {
		f.w.Write([]byte(",\n"))
	}
	f.isFirst = false
	b, _ := json.Marshal(ev)
	f.w.Write(b)
}
