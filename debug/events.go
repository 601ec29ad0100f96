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

import "github.com/bflang/bfdbg/token"

// StopReason explains why the worker transitioned to Paused/Terminated.
type StopReason int

const (
	StopBreakpoint StopReason = iota
	StopStep
	StopComplete
	StopTerminated
)

func (r StopReason) String() string {
	switch r {
	case StopBreakpoint:
		return "breakpoint"
	case StopStep:
		return "step"
	case StopComplete:
		return "complete"
	case StopTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// StoppedEvent is delivered to the caller's Stopped callback whenever the
// worker pauses, and once more when it completes or is terminated.
type StoppedEvent struct {
	Reason StopReason
	Pos    token.Position
}

// OutputCategory classifies an OutputEvent.
type OutputCategory int

const (
	OutputConsole OutputCategory = iota
	OutputStdOut
	OutputMemoryChanged
)

// OutputEvent is delivered to the caller's Output callback for program
// output ('.'), for a Console diagnostic (Message set, Byte unused), and,
// tagged OutputMemoryChanged, whenever a write mutates the tape — used by
// a frontend to live-refresh a memory view.
type OutputEvent struct {
	Category OutputCategory
	Byte     byte
	Message  string
}

// StoppedFunc and OutputFunc are the two narrow callback interfaces a
// caller (the DAP transport, a REPL, a test) supplies to Session.Launch —
// everything this package needs from its "uninteresting collaborators"
// (spec.md §2).
type StoppedFunc func(StoppedEvent)
type OutputFunc func(OutputEvent)
