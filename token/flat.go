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
package token

// FlatParse produces the same lexemes as Parse, but loops are not
// nested: '[' and ']' are emitted as individual tokens in source order.
// This is used exclusively by the breakpoint validator (package
// breakpoint), which needs to walk every executable position in
// source order, including ones nested arbitrarily deep inside loops,
// without reconstructing tree structure.
func FlatParse(text string) (TokenTree, error) {
	s := newScanner(text)
	var depth int
	var tree TokenTree
	for {
		s.skipWhitespace()
		if s.eof() {
			if depth > 0 {
				return nil, &ParseError{Kind: UnmatchedOpenBracket, Pos: Range{Start: s.pos, End: s.pos}}
			}
			return tree, nil
		}
		if s.isCommentStart() {
			c, err := s.scanComment()
			if err != nil {
				return nil, err
			}
			tree = append(tree, c)
			continue
		}
		r := s.peek()
		if r == '[' {
			start := s.pos
			s.next()
			depth++
			tree = append(tree, Token{Range: Range{Start: start, End: s.pos}, Kind: LoopOpen})
			continue
		}
		if r == ']' {
			if depth == 0 {
				start := s.pos
				s.next()
				return nil, &ParseError{Kind: UnmatchedCloseBracket, Pos: Range{Start: start, End: s.pos}}
			}
			start := s.pos
			s.next()
			depth--
			tree = append(tree, Token{Range: Range{Start: start, End: s.pos}, Kind: LoopClose})
			continue
		}
		if kind, ok := simpleKind(r); ok {
			start := s.pos
			s.next()
			tree = append(tree, Token{Range: Range{Start: start, End: s.pos}, Kind: kind})
			continue
		}
		start := s.pos
		bad := s.next()
		return nil, &ParseError{Kind: InvalidCharacter, Pos: Range{Start: start, End: s.pos}, Extra: string(bad)}
	}
}
