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
package interp

import "io"

// readerInput adapts an io.Reader to Input, one byte at a time.
type readerInput struct {
	r io.Reader
}

// NewReaderInput wraps r (typically os.Stdin) as an Input.
func NewReaderInput(r io.Reader) Input {
	return &readerInput{r: r}
}

func (ri *readerInput) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := io.ReadFull(ri.r, buf[:])
	return buf[0], err
}

// writerOutput adapts an io.Writer to Output.
type writerOutput struct {
	w io.Writer
}

// NewWriterOutput wraps w (typically os.Stdout) as an Output.
func NewWriterOutput(w io.Writer) Output {
	return &writerOutput{w: w}
}

func (wo *writerOutput) WriteByte(b byte) error {
	_, err := wo.w.Write([]byte{b})
	return err
}
