// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package dynhuff is a collection of tools for adaptive Huffman coding of
// 8-bit symbol streams.
//
// The codec itself lives in the fgk package. The pgm and container packages
// handle the grayscale image format and the on-disk wrapper used by the
// dynhuff command.
package dynhuff

import (
	"bufio"
	"io"
)

// The Error interface identifies all errors produced by this module.
type Error interface {
	error
	CorruptError() bool // True if the error indicates malformed input
	ClosedError() bool  // True if the stream was used after Close
}

// ByteReader is an interface accepted by all decoders.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// BufferedReader is an interface accepted by all decoders.
// Decoders never read past the end of their stream when given one.
type BufferedReader interface {
	io.Reader

	// Buffered returns the number of bytes currently buffered.
	Buffered() int

	// Peek returns the next n bytes without advancing the reader.
	//
	// If Peek returns fewer than n bytes, it also returns an error explaining
	// why the peek is short.
	Peek(n int) ([]byte, error)

	// Discard skips the next n bytes, returning the number of bytes discarded.
	//
	// If Discard skips fewer than n bytes, it also returns an error.
	Discard(n int) (int, error)
}

var _ BufferedReader = (*bufio.Reader)(nil)
