// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bitbuf implements the MSB-first bit packing used by the fgk format.
//
// Bits are accumulated into a 64-bit register that is flushed to the
// underlying stream in big-endian order, such that the first bit written is
// the most-significant bit of the first byte. The stream ends with a single
// trailer byte that records how many bits of the last data byte are
// meaningful. An empty bit stream is encoded as zero bytes.
package bitbuf

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string       { return "bitbuf: " + string(e) }
func (e Error) CorruptError() bool { return e == ErrCorrupt }
func (e Error) ClosedError() bool  { return false }

// ErrCorrupt reports a malformed trailer or non-zero padding bits.
var ErrCorrupt error = Error("stream is corrupted")

// MaxWriteBits is the largest field that WriteBits accepts.
const MaxWriteBits = 32
