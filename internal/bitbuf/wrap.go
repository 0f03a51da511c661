// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitbuf

import (
	"bytes"
	"io"
)

// The common in-memory readers are extended to satisfy the
// dynhuff.BufferedReader interface so that Reader does not need to copy
// them into a bufio.Reader.

type buffer struct {
	*bytes.Buffer
}

func (r *buffer) Buffered() int { return r.Len() }

func (r *buffer) Peek(n int) ([]byte, error) {
	b := r.Bytes()
	if len(b) < n {
		return b, io.EOF
	}
	return b[:n], nil
}

func (r *buffer) Discard(n int) (int, error) {
	b := r.Next(n)
	if len(b) < n {
		return len(b), io.EOF
	}
	return n, nil
}

// sizedReaderAt is implemented by both bytes.Reader and strings.Reader.
type sizedReaderAt interface {
	io.Reader
	io.ReaderAt
	io.Seeker
	Len() int
}

type seekReader struct {
	r   sizedReaderAt
	pos int64 // Offset of buf within r
	buf []byte
	arr [64]byte
}

func (r *seekReader) Read(b []byte) (int, error) { return r.r.Read(b) }

func (r *seekReader) Buffered() int {
	if r.r.Len() > len(r.buf) {
		return len(r.buf)
	}
	return r.r.Len()
}

func (r *seekReader) Peek(n int) ([]byte, error) {
	if n > len(r.arr) {
		return nil, io.ErrShortBuffer
	}

	// Reuse the local buffer if it still covers the current position.
	pos, _ := r.r.Seek(0, io.SeekCurrent)
	if off := pos - r.pos; off > 0 && off < int64(len(r.buf)) {
		r.buf, r.pos = r.buf[off:], pos
	}
	if len(r.buf) >= n && r.pos == pos {
		return r.buf[:n], nil
	}

	cnt, err := r.r.ReadAt(r.arr[:], pos)
	r.buf, r.pos = r.arr[:cnt], pos
	if cnt < n {
		if err == nil {
			err = io.EOF
		}
		return r.arr[:cnt], err
	}
	return r.arr[:n], nil
}

func (r *seekReader) Discard(n int) (int, error) {
	var err error
	if n > r.r.Len() {
		n, err = r.r.Len(), io.EOF
	}
	r.r.Seek(int64(n), io.SeekCurrent)
	return n, err
}
