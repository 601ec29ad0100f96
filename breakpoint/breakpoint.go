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

// Package breakpoint validates requested (line, column) breakpoints
// against a program's actual token positions (component B). Grounded on
// storage/index.go's btree.BTreeG-backed ordered index: the same
// data structure, repurposed from indexing row tuples to indexing
// breakpoint positions so a requested line can be resolved against the
// nearest executable token in O(log n).
package breakpoint

import (
	"github.com/google/btree"

	"github.com/bflang/bfdbg/token"
)

// Breakpoint is a validated breakpoint: Pos always names an actual
// executable token, even when the caller only supplied a line (spec.md
// §4.B's "first executable token on that line" fallback).
type Breakpoint struct {
	ID      int
	Pos     token.Position
	Enabled bool
}

// entry is the btree element: ordered by Pos, carrying the flat token
// index it was resolved against so Validator can re-derive adjacency.
type entry struct {
	pos   token.Position
	index int
}

func less(a, b entry) bool {
	return a.pos.Less(b.pos)
}

// Validator indexes every executable token position in a parsed program
// and resolves breakpoint requests against it.
type Validator struct {
	flat   token.TokenTree
	index  *btree.BTreeG[entry]
	nextID int
}

// NewValidator flat-parses src (so nested loop bodies contribute their
// own positions rather than being hidden inside a Children slice) and
// builds the position index.
func NewValidator(src string) (*Validator, error) {
	flat, err := token.FlatParse(src)
	if err != nil {
		return nil, err
	}
	idx := btree.NewG(32, less)
	for i, tok := range flat {
		if tok.Kind == token.Comment {
			continue
		}
		idx.ReplaceOrInsert(entry{pos: tok.Range.Start, index: i})
	}
	return &Validator{flat: flat, index: idx}, nil
}

// Add validates and registers a breakpoint at (line, column). column < 0
// means "no column given": the line's first executable token is used
// (spec.md §4.B). Returns ErrNoExecutableTokenOnLine if the line has no
// matching token at all.
func (v *Validator) Add(line int, column int) (Breakpoint, error) {
	pos, err := v.resolve(line, column)
	if err != nil {
		return Breakpoint{}, err
	}
	v.nextID++
	return Breakpoint{ID: v.nextID, Pos: pos, Enabled: true}, nil
}

func (v *Validator) resolve(line int, column int) (token.Position, error) {
	if column >= 0 {
		want := token.Position{Line: line, Character: column}
		var found *token.Position
		v.index.AscendGreaterOrEqual(entry{pos: want}, func(e entry) bool {
			if e.pos.Line != line {
				return false
			}
			p := e.pos
			found = &p
			return false
		})
		if found == nil || found.Character != column {
			return token.Position{}, ErrNoExecutableTokenAtColumn
		}
		return *found, nil
	}

	var found *token.Position
	v.index.AscendGreaterOrEqual(entry{pos: token.Position{Line: line, Character: 0}}, func(e entry) bool {
		if e.pos.Line != line {
			return false
		}
		p := e.pos
		found = &p
		return false
	})
	if found == nil {
		return token.Position{}, ErrNoExecutableTokenOnLine
	}
	return *found, nil
}
