// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package pgm reads and writes binary (P5) portable graymap images with
// 8-bit samples.
package pgm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string       { return "pgm: " + string(e) }
func (e Error) CorruptError() bool { return e == ErrFormat }
func (e Error) ClosedError() bool  { return false }

// ErrFormat reports a malformed or unsupported header.
var ErrFormat error = Error("invalid or unsupported header")

const magic = "P5"

// MaxSize is the largest number of samples an image may hold. It keeps
// Header.Size from overflowing.
const MaxSize = 1 << 48

// Header is the header of a binary graymap.
type Header struct {
	Width   int
	Height  int
	MaxVal  int    // Largest sample value, between 1 and 255
	Comment string // Optional single-line comment, without the leading '#'
}

// Size reports the number of samples in the raster.
func (h Header) Size() int64 { return int64(h.Width) * int64(h.Height) }

func (h Header) valid() bool {
	return h.Width > 0 && h.Height > 0 && int64(h.Width) <= MaxSize/int64(h.Height) &&
		h.MaxVal > 0 && h.MaxVal <= 255 && !strings.ContainsAny(h.Comment, "\r\n")
}

// ReadHeader parses a header from r, leaving r positioned at the first
// sample. Comment lines may appear anywhere between the header fields;
// the first one is kept in Header.Comment.
func ReadHeader(r *bufio.Reader) (Header, error) {
	var h Header
	p := headerParser{rd: r}
	if tok := p.token(); tok != magic {
		if p.err != nil {
			return h, p.err
		}
		return h, ErrFormat
	}
	h.Width = p.number()
	h.Height = p.number()
	h.MaxVal = p.number()
	if p.err != nil {
		return h, p.err
	}
	h.Comment = p.comment

	// A single whitespace byte separates the header from the raster.
	if c, err := r.ReadByte(); err != nil || !isSpace(c) {
		return h, ErrFormat
	}
	if !h.valid() {
		return h, ErrFormat
	}
	return h, nil
}

// WriteHeader writes h to w.
func WriteHeader(w io.Writer, h Header) error {
	if !h.valid() {
		return ErrFormat
	}
	var s string
	if h.Comment != "" {
		s = fmt.Sprintf("%s\n# %s\n%d %d\n%d\n", magic, h.Comment, h.Width, h.Height, h.MaxVal)
	} else {
		s = fmt.Sprintf("%s\n%d %d\n%d\n", magic, h.Width, h.Height, h.MaxVal)
	}
	_, err := io.WriteString(w, s)
	return err
}

// Decode reads a complete image from r.
func Decode(r io.Reader) (Header, []byte, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	h, err := ReadHeader(br)
	if err != nil {
		return h, nil, err
	}
	pix := make([]byte, h.Size())
	if _, err := io.ReadFull(br, pix); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return h, nil, err
	}
	return h, pix, nil
}

// Encode writes a complete image to w.
func Encode(w io.Writer, h Header, pix []byte) error {
	if int64(len(pix)) != h.Size() {
		return Error("raster size does not match header")
	}
	if err := WriteHeader(w, h); err != nil {
		return err
	}
	_, err := w.Write(pix)
	return err
}

type headerParser struct {
	rd      *bufio.Reader
	comment string
	seen    bool // Whether a comment was already kept
	err     error
}

// token returns the next whitespace-delimited token, skipping comments.
func (p *headerParser) token() string {
	if p.err != nil {
		return ""
	}
	var b []byte
	for {
		c, err := p.rd.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			p.err = err
			return ""
		}
		switch {
		case c == '#' && len(b) == 0:
			line, err := p.rd.ReadString('\n')
			if err != nil {
				p.err = io.ErrUnexpectedEOF
				return ""
			}
			if !p.seen {
				p.comment, p.seen = strings.TrimSpace(line), true
			}
		case isSpace(c):
			if len(b) > 0 {
				// Leave the delimiter for the caller to consume.
				p.rd.UnreadByte()
				return string(b)
			}
		default:
			if len(b) >= 16 {
				p.err = ErrFormat
				return ""
			}
			b = append(b, c)
		}
	}
}

func (p *headerParser) number() int {
	tok := p.token()
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n <= 0 {
		p.err = ErrFormat
	}
	return n
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
