// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitbuf

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/dsnet/dynhuff"
)

// Reader unpacks a bit stream produced by Writer.
//
// The Reader looks ahead by two bytes in order to recognize the trailer, so
// it requires a BufferedReader. Other readers are wrapped in a bufio.Reader,
// in which case the Reader may consume bytes past the end of the stream.
type Reader struct {
	rd     dynhuff.BufferedReader
	bufRd  *bufio.Reader // Reused when rd is a plain io.Reader
	cur    byte          // Unread bits of the current byte, MSB aligned
	nb     uint          // Number of unread bits in cur
	last   bool          // Whether cur is the final data byte
	offset int64         // Number of bytes consumed from rd
	err    error
}

// NewReader returns a Reader that reads from r.
func NewReader(r io.Reader) *Reader {
	br := new(Reader)
	br.Reset(r)
	return br
}

// Reset discards all state and switches the Reader to read from r.
func (br *Reader) Reset(r io.Reader) {
	*br = Reader{bufRd: br.bufRd}
	switch rr := r.(type) {
	case *bytes.Buffer:
		br.rd = &buffer{Buffer: rr}
	case *bytes.Reader:
		br.rd = &seekReader{r: rr}
	case *strings.Reader:
		br.rd = &seekReader{r: rr}
	case dynhuff.BufferedReader:
		br.rd = rr
	default:
		if br.bufRd == nil {
			br.bufRd = bufio.NewReader(r)
		} else {
			br.bufRd.Reset(r)
		}
		br.rd = br.bufRd
	}
}

// ReadBit reads a single bit.
// It returns io.EOF exactly after the last meaningful bit of the stream.
func (br *Reader) ReadBit() (uint, error) {
	if br.nb == 0 {
		if err := br.fill(); err != nil {
			return 0, err
		}
	}
	b := uint(br.cur >> 7)
	br.cur <<= 1
	br.nb--
	return b, nil
}

// ReadByte reads an 8-bit field, most-significant bit first.
// It returns io.EOF only if the stream ended before the first bit, and
// io.ErrUnexpectedEOF if it ended within the field.
func (br *Reader) ReadByte() (byte, error) {
	if br.nb == 8 {
		c := br.cur
		br.cur, br.nb = 0, 0
		return c, nil
	}
	var c byte
	for i := 0; i < 8; i++ {
		b, err := br.ReadBit()
		if err != nil {
			if err == io.EOF && i > 0 {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		c = c<<1 | byte(b)
	}
	return c, nil
}

// Offset reports the number of bytes consumed from the underlying reader.
func (br *Reader) Offset() int64 { return br.offset }

// fill loads the next data byte into cur.
func (br *Reader) fill() error {
	if br.err != nil {
		return br.err
	}
	if br.last {
		br.err = io.EOF
		return br.err
	}

	buf, err := br.rd.Peek(3)
	if len(buf) < 3 && err != io.EOF && err != nil {
		br.err = err
		return err
	}
	switch len(buf) {
	case 3:
		br.cur, br.nb = buf[0], 8
		br.discard(1)
	case 2:
		cnt := buf[1]
		if cnt < 1 || cnt > 8 || buf[0]<<cnt != 0 {
			br.err = ErrCorrupt
			return br.err
		}
		br.cur, br.nb, br.last = buf[0], uint(cnt), true
		br.discard(2)
	case 1:
		br.err = io.ErrUnexpectedEOF
	default:
		if br.offset > 0 {
			br.err = io.ErrUnexpectedEOF
		} else {
			br.err = io.EOF
		}
	}
	return br.err
}

func (br *Reader) discard(n int) {
	cnt, err := br.rd.Discard(n)
	br.offset += int64(cnt)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		br.err = err
	}
}
