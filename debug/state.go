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

// Package debug is the debug interpreter (component D): a cooperative
// state machine that walks a token.TokenTree one token at a time on its
// own goroutine, stopping for breakpoints and single-stepping, while the
// caller's goroutine drives it through channels. Grounded on
// scm/scheduler.go's worker-goroutine-plus-channel-plus-WaitGroup shape
// and storage/compute.go's jtolds/gls goroutine tagging.
package debug

import "time"

// RunState is the worker goroutine's execution state.
type RunState int

const (
	RunRunning RunState = iota
	RunPaused
	RunStep
	RunTerminated
)

func (s RunState) String() string {
	switch s {
	case RunRunning:
		return "running"
	case RunPaused:
		return "paused"
	case RunStep:
		return "step"
	case RunTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// SessionState is the caller-facing lifecycle state (spec.md §3).
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionLaunchReady
	SessionRunning
	SessionTerminated
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionLaunchReady:
		return "launch-ready"
	case SessionRunning:
		return "running"
	case SessionTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// pollInterval is how long the worker sleeps between checks while paused
// or waiting on user input, per spec.md §9's resolution of the polling
// cadence open question: short enough that Pause/stepping feels
// immediate, long enough not to burn a core busy-waiting.
const pollInterval = 1 * time.Millisecond
