// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitbuf

import (
	"encoding/binary"
	"io"

	"github.com/dsnet/dynhuff/internal"
)

// Writer packs variable-width bit fields into a byte stream.
type Writer struct {
	wr io.Writer

	bits   uint64 // Pending bits, aligned to the most-significant end
	free   uint   // Number of unused low bits in bits
	nbits  int64  // Total number of bits written
	offset int64  // Number of bytes written to wr
	buf    [9]byte
	err    error
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	bw := new(Writer)
	bw.Reset(w)
	return bw
}

// Reset discards all state and switches the Writer to write to w.
func (bw *Writer) Reset(w io.Writer) {
	*bw = Writer{wr: w, free: 64}
}

// WriteBits writes the lower n bits of v, most-significant bit first.
// The value of n must not exceed MaxWriteBits.
func (bw *Writer) WriteBits(v uint32, n uint) error {
	if bw.err != nil {
		return bw.err
	}
	if n > MaxWriteBits {
		panic("bitbuf: invalid bit count")
	}
	v = internal.MaskUint32(v, n)
	bw.nbits += int64(n)

	if n <= bw.free {
		bw.free -= n
		bw.bits |= uint64(v) << bw.free
		return nil
	}

	// The field straddles the register boundary. The top bits complete the
	// current register and the rest start the next one.
	rem := n - bw.free
	bw.bits |= uint64(v) >> rem
	bw.flushRegister()
	bw.bits = uint64(v) << (64 - rem)
	bw.free = 64 - rem
	return bw.err
}

// WriteByte writes c as an 8-bit field.
func (bw *Writer) WriteByte(c byte) error {
	return bw.WriteBits(uint32(c), 8)
}

// Flush writes all pending bits followed by the trailer byte.
// After Flush, the Writer must be Reset before reuse.
func (bw *Writer) Flush() error {
	if bw.err != nil || bw.nbits == 0 {
		return bw.err
	}
	used := 64 - bw.free
	cnt := int((used + 7) / 8)
	binary.BigEndian.PutUint64(bw.buf[:8], bw.bits)
	last := byte(bw.nbits % 8)
	if last == 0 {
		last = 8
	}
	bw.buf[cnt] = last
	bw.write(bw.buf[:cnt+1])
	bw.bits, bw.free = 0, 64
	return bw.err
}

// BitsWritten reports the number of bits written so far.
func (bw *Writer) BitsWritten() int64 { return bw.nbits }

// Err returns the first error encountered while writing.
func (bw *Writer) Err() error { return bw.err }

// Offset reports the number of bytes written to the underlying io.Writer.
func (bw *Writer) Offset() int64 { return bw.offset }

func (bw *Writer) flushRegister() {
	binary.BigEndian.PutUint64(bw.buf[:8], bw.bits)
	bw.write(bw.buf[:8])
	bw.bits, bw.free = 0, 64
}

func (bw *Writer) write(b []byte) {
	if bw.err != nil {
		return
	}
	n, err := bw.wr.Write(b)
	bw.offset += int64(n)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	bw.err = err
}
