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

// Package logging is a thin, named-surface wrapper around glog, the
// verbosity-leveled logger google-kati's parser.go and exec.go use
// throughout (glog.V(1).Infof(...), glog.Errorf(...)). The teacher repo
// itself logs with bare fmt.Println; glog is adopted here because the
// debug engine's scheduling step (package debug) and the auto-JIT
// dispatcher (package autojit) both want exactly google-kati's pattern
// of "expensive, high-volume trace lines gated behind -v, always-on
// error lines ungated".
package logging

import "github.com/golang/glog"

// Trace logs at verbosity level 1 — per-token/per-loop chatter, the
// analogue of google-kati's glog.V(1).Infof calls in parser.go.
func Trace(format string, args ...any) {
	if glog.V(1) {
		glog.Infof(format, args...)
	}
}

// Verbose logs at verbosity level 4 — the noisiest tier, for the JIT's
// per-instruction emission trace (mirrors parser.go's glog.V(4) buf
// dumps).
func Verbose(format string, args ...any) {
	if glog.V(4) {
		glog.Infof(format, args...)
	}
}

// Info logs unconditionally.
func Info(format string, args ...any) {
	glog.Infof(format, args...)
}

// Error logs unconditionally at error level.
func Error(format string, args ...any) {
	glog.Errorf(format, args...)
}

// Flush flushes any buffered log entries; call before process exit
// (wired into cmd/bfdbg's dc0d/onexit teardown).
func Flush() {
	glog.Flush()
}
