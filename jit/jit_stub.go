//go:build !amd64

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

// Package jit's native backend only targets amd64 (spec.md's Non-goals
// explicitly exclude cross-architecture JIT). On any other GOARCH,
// Compile/Run report ErrUnsupportedArch so callers (notably package
// autojit) can fall back to the interpreter unconditionally.
package jit

import (
	"errors"

	"github.com/bflang/bfdbg/interp"
	"github.com/bflang/bfdbg/tape"
	"github.com/bflang/bfdbg/token"
)

// ErrUnsupportedArch is returned by every entry point on non-amd64
// platforms.
var ErrUnsupportedArch = errors.New("jit: native compilation is only supported on amd64")

// Cache is an opaque, always-empty placeholder on unsupported platforms.
type Cache struct{}

// Compile always fails with ErrUnsupportedArch.
func Compile(tree token.TokenTree) (*Cache, error) {
	return nil, ErrUnsupportedArch
}

// Invoke always fails with ErrUnsupportedArch.
func (c *Cache) Invoke(t *tape.Tape, out interp.Output, in interp.Input) error {
	return ErrUnsupportedArch
}

// Close is a no-op.
func (c *Cache) Close() error { return nil }

// Run always fails with ErrUnsupportedArch.
func Run(t *tape.Tape, out interp.Output, in interp.Input, tree token.TokenTree) error {
	return ErrUnsupportedArch
}
