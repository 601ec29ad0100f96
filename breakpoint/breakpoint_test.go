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
package breakpoint

import "testing"

func TestAddWithExplicitColumnMustLandExactlyOnToken(t *testing.T) {
	v, err := NewValidator("++>\n+[-]")
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	bp, err := v.Add(0, 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if bp.Pos.Line != 0 || bp.Pos.Character != 2 {
		t.Fatalf("pos = %v, want 0:2", bp.Pos)
	}
}

func TestAddWithoutColumnPicksFirstTokenOnLine(t *testing.T) {
	v, err := NewValidator("  ++\n[-]")
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	bp, err := v.Add(0, -1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if bp.Pos.Line != 0 || bp.Pos.Character != 2 {
		t.Fatalf("pos = %v, want 0:2 (first '+' after leading spaces)", bp.Pos)
	}
}

func TestAddOnBlankLineFails(t *testing.T) {
	v, err := NewValidator("+\n\n+")
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	if _, err := v.Add(1, -1); err != ErrNoExecutableTokenOnLine {
		t.Fatalf("got %v, want ErrNoExecutableTokenOnLine", err)
	}
}

func TestAddAtWrongColumnFails(t *testing.T) {
	v, err := NewValidator("++")
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	if _, err := v.Add(0, 5); err != ErrNoExecutableTokenAtColumn {
		t.Fatalf("got %v, want ErrNoExecutableTokenAtColumn", err)
	}
}

func TestFlatParseIndexesNestedLoopPositions(t *testing.T) {
	v, err := NewValidator("+[+[-]+]")
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	// column of the inner '-' is 4
	bp, err := v.Add(0, 4)
	if err != nil {
		t.Fatalf("add inner: %v", err)
	}
	if bp.Pos.Character != 4 {
		t.Fatalf("pos = %v, want column 4", bp.Pos)
	}
}
