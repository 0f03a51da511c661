// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package fgk

import (
	"io"

	"github.com/dsnet/dynhuff/internal/bitbuf"
)

// WriterConfig configures a Writer.
type WriterConfig struct {
	// MaxSymbols is the maximum number of symbols the Writer accepts.
	// If zero, the only limit is the weight capacity of the tree.
	MaxSymbols int64

	_ struct{} // Blank field to prevent unkeyed struct literals
}

// Writer is an io.WriteCloser that encodes bytes as an adaptive Huffman
// stream.
type Writer struct {
	InputOffset  int64 // Total number of bytes issued to Write
	OutputOffset int64 // Total number of bytes written to underlying io.Writer

	bw    bitbuf.Writer
	tree  Tree
	limit int64
	err   error
}

// NewWriter returns a new Writer that compresses data written to w.
// If conf is nil, then default configuration values are used.
func NewWriter(w io.Writer, conf *WriterConfig) (*Writer, error) {
	var limit int64
	if conf != nil {
		if conf.MaxSymbols < 0 {
			return nil, Error("invalid symbol limit")
		}
		limit = conf.MaxSymbols
	}
	zw := &Writer{limit: limit}
	zw.Reset(w)
	return zw, nil
}

// Reset discards the Writer's state and makes it equivalent to the result of
// a call to NewWriter, but writing to w instead. The configuration is kept.
func (zw *Writer) Reset(w io.Writer) error {
	*zw = Writer{
		bw:    zw.bw,
		tree:  zw.tree,
		limit: zw.limit,
	}
	zw.bw.Reset(w)
	zw.tree.nodes = zw.tree.nodes[:0]
	return nil
}

func (zw *Writer) Write(buf []byte) (int, error) {
	if zw.err != nil {
		return 0, zw.err
	}

	var cnt int
	for _, c := range buf {
		if err := zw.encodeSymbol(c); err != nil {
			zw.err = err
			break
		}
		zw.InputOffset++
		cnt++
	}
	zw.OutputOffset = zw.bw.Offset()
	return cnt, zw.err
}

// WriteByte encodes a single symbol.
func (zw *Writer) WriteByte(c byte) error {
	_, err := zw.Write([]byte{c})
	return err
}

func (zw *Writer) encodeSymbol(c byte) error {
	if zw.limit > 0 && zw.InputOffset >= zw.limit {
		return ErrTooLarge
	}
	t := &zw.tree
	if t.Len() == 0 {
		t.Init(c)
		zw.bw.WriteBits(0, 1)
		return zw.bw.WriteByte(c)
	}
	if t.Full() {
		return ErrTooLarge
	}

	if leaf, ok := t.Lookup(c); ok {
		zw.writeCode(t.Path(leaf))
		t.Update(leaf)
	} else {
		zw.writeCode(t.Path(t.NYT()))
		zw.bw.WriteByte(c)
		t.Update(t.Insert(c))
	}
	return zw.bw.Err()
}

func (zw *Writer) writeCode(val uint64, nb uint) {
	if nb > bitbuf.MaxWriteBits {
		zw.bw.WriteBits(uint32(val>>bitbuf.MaxWriteBits), nb-bitbuf.MaxWriteBits)
		nb = bitbuf.MaxWriteBits
	}
	zw.bw.WriteBits(uint32(val), nb)
}

// Tree returns the current state of the adaptive tree.
// The tree must not be modified.
func (zw *Writer) Tree() *Tree { return &zw.tree }

// Close ends the stream by flushing all pending bits and the trailer.
// It does not close the underlying io.Writer.
func (zw *Writer) Close() error {
	if zw.err == ErrClosed {
		return nil
	}
	if zw.err != nil {
		return zw.err
	}
	if err := zw.bw.Flush(); err != nil {
		zw.err = err
		return err
	}
	zw.OutputOffset = zw.bw.Offset()
	zw.err = ErrClosed
	return nil
}
