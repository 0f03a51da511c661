// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package fgk implements one-pass adaptive Huffman coding of 8-bit symbols
// using the FGK algorithm (Faller, Gallager, Knuth).
//
// The encoder and decoder start from the same tree and apply the same update
// after every symbol, so no code table is ever transmitted. A symbol that has
// not been seen before is sent as the code of the NYT ("not yet transmitted")
// leaf followed by its 8-bit literal value.
//
// Stream format
//
// The first symbol is sent as a single 0 bit followed by its literal. Every
// following symbol is either the code of its leaf, or the code of the NYT leaf
// followed by the literal. Bits are packed most-significant bit first and the
// stream ends with a trailer byte as described by the bitbuf package.
// An empty input produces an empty stream.
package fgk

import (
	"io"
	"runtime"

	"github.com/dsnet/dynhuff/internal/bitbuf"
)

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string       { return "fgk: " + string(e) }
func (e Error) CorruptError() bool { return e == ErrCorrupt }
func (e Error) ClosedError() bool  { return e == ErrClosed }

var (
	// ErrCorrupt reports that the input stream is malformed.
	ErrCorrupt error = Error("stream is corrupted")

	// ErrTooLarge reports that a stream exceeded the symbol limit, either
	// the configured one or the weight capacity of the tree.
	ErrTooLarge error = Error("too many symbols")

	// ErrClosed reports use of a Reader or Writer after Close.
	ErrClosed error = Error("stream is closed")
)

func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}

// errWrap converts errors from the bit reader into errors of this package.
// An io.EOF is only legal on a symbol boundary, which the caller checks.
func errWrap(err error) error {
	switch err {
	case io.EOF:
		return io.ErrUnexpectedEOF
	case bitbuf.ErrCorrupt:
		return ErrCorrupt
	}
	return err
}
