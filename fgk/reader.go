// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package fgk

import (
	"io"

	"github.com/dsnet/dynhuff/internal/bitbuf"
)

// ReaderConfig configures a Reader.
type ReaderConfig struct {
	_ struct{} // Blank field to prevent unkeyed struct literals
}

// Reader is an io.ReadCloser that decodes an adaptive Huffman stream.
type Reader struct {
	InputOffset  int64 // Total number of bytes read from underlying io.Reader
	OutputOffset int64 // Total number of bytes emitted from Read

	br     bitbuf.Reader
	tree   Tree
	toRead []byte
	arr    [4096]byte
	err    error
}

// NewReader returns a new Reader that decompresses data from r.
// The stream ends at the end of r, so r must not carry trailing data.
// If conf is nil, then default configuration values are used.
func NewReader(r io.Reader, conf *ReaderConfig) (*Reader, error) {
	zr := new(Reader)
	zr.Reset(r)
	return zr, nil
}

// Reset discards the Reader's state and makes it equivalent to the result of
// a call to NewReader, but reading from r instead.
func (zr *Reader) Reset(r io.Reader) error {
	zr.InputOffset, zr.OutputOffset = 0, 0
	zr.br.Reset(r)
	zr.tree.nodes = zr.tree.nodes[:0]
	zr.toRead, zr.err = nil, nil
	return nil
}

func (zr *Reader) Read(buf []byte) (int, error) {
	for {
		if len(zr.toRead) > 0 {
			cnt := copy(buf, zr.toRead)
			zr.toRead = zr.toRead[cnt:]
			zr.OutputOffset += int64(cnt)
			return cnt, nil
		}
		if zr.err != nil {
			return 0, zr.err
		}
		zr.decodeSymbols()
		zr.InputOffset = zr.br.Offset()
	}
}

// ReadByte decodes a single symbol.
func (zr *Reader) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(zr, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// decodeSymbols fills toRead with as many symbols as fit in arr, stopping
// early at the end of the stream or on the first error.
func (zr *Reader) decodeSymbols() {
	defer errRecover(&zr.err)
	zr.toRead = zr.arr[:0]
	for len(zr.toRead) < len(zr.arr) {
		c, ok := zr.decodeSymbol()
		if !ok {
			panic(io.EOF)
		}
		zr.toRead = append(zr.toRead, c)
	}
}

// decodeSymbol returns the next symbol, or false at a clean end of stream.
// All other failures are raised as panics.
func (zr *Reader) decodeSymbol() (byte, bool) {
	t := &zr.tree
	if t.Len() == 0 {
		b, err := zr.br.ReadBit()
		if err == io.EOF {
			return 0, false
		}
		if err != nil {
			panic(errWrap(err))
		}
		if b != 0 {
			panic(ErrCorrupt)
		}
		c := zr.readLiteral()
		t.Init(c)
		return c, true
	}
	if t.Full() {
		panic(ErrCorrupt)
	}

	n := t.Root()
	for !t.IsLeaf(n) {
		b, err := zr.br.ReadBit()
		if err == io.EOF && n == t.Root() {
			return 0, false
		}
		if err != nil {
			panic(errWrap(err))
		}
		n = t.Child(n, b)
	}

	if n == t.NYT() {
		c := zr.readLiteral()
		if _, ok := t.Lookup(c); ok {
			panic(ErrCorrupt)
		}
		t.Update(t.Insert(c))
		return c, true
	}
	c := t.Symbol(n)
	t.Update(n)
	return c, true
}

func (zr *Reader) readLiteral() byte {
	c, err := zr.br.ReadByte()
	if err != nil {
		panic(errWrap(err))
	}
	return c
}

// Tree returns the current state of the adaptive tree.
// The tree must not be modified.
func (zr *Reader) Tree() *Tree { return &zr.tree }

// Close ends the Reader. It does not close the underlying io.Reader.
func (zr *Reader) Close() error {
	if zr.err == io.EOF || zr.err == ErrClosed {
		zr.toRead = nil // Make sure future reads fail
		zr.err = ErrClosed
		return nil
	}
	return zr.err // Return the persistent error
}
