// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitbuf

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dsnet/dynhuff/internal/testutil"
	"github.com/icza/bitio"
	"github.com/stretchr/testify/assert"
)

type field struct {
	v uint32
	n uint
}

// withTrailer appends the trailer byte to a BitGen generated stream.
func withTrailer(s string, cnt byte) []byte {
	return append(testutil.MustDecodeBitGen(s), cnt)
}

var streamVectors = []struct {
	fields []field
	output []byte
}{{
	fields: nil,
	output: []byte{},
}, {
	fields: []field{{1, 1}},
	output: withTrailer("1", 1),
}, {
	fields: []field{{0x41, 8}},
	output: withTrailer("H8:41", 8),
}, {
	fields: []field{{0x5, 3}, {0x1ff, 9}},
	output: withTrailer("101 111111111", 4),
}, {
	fields: []field{{0x0, 0}, {0x5, 3}, {0x0, 0}},
	output: withTrailer("101", 3),
}, {
	fields: []field{{0xdeadbeef, 32}, {0xdeadbeef, 32}},
	output: withTrailer("H32:deadbeef*2", 8),
}, {
	fields: []field{{0, 30}, {0, 30}, {0xff, 8}},
	output: withTrailer("0*60 1*8", 4),
}, {
	fields: []field{{0xffffffff, 32}, {0xffffffff, 32}, {1, 1}},
	output: withTrailer("1*65", 1),
}, {
	fields: []field{{0xfffffff0, 4}, {0x3fffffff, 30}, {0x12345, 17}, {0x3, 2}, {0xabcd, 16}},
	output: withTrailer("0000 1*30 D17:74565 11 H16:abcd", 5),
}}

func TestWriter(t *testing.T) {
	for i, v := range streamVectors {
		var b bytes.Buffer
		bw := NewWriter(&b)
		var nbits int64
		for _, f := range v.fields {
			if err := bw.WriteBits(f.v, f.n); err != nil {
				t.Fatalf("test %d, unexpected error: %v", i, err)
			}
			nbits += int64(f.n)
		}
		if err := bw.Flush(); err != nil {
			t.Errorf("test %d, unexpected error: %v", i, err)
		}
		if got, want := b.Bytes(), v.output; !bytes.Equal(got, want) {
			t.Errorf("test %d, output mismatch:\ngot  %x\nwant %x", i, got, want)
		}
		if got := bw.BitsWritten(); got != nbits {
			t.Errorf("test %d, bit count mismatch: got %d, want %d", i, got, nbits)
		}
		if got, want := bw.Offset(), int64(len(v.output)); got != want {
			t.Errorf("test %d, offset mismatch: got %d, want %d", i, got, want)
		}
	}
}

func TestReader(t *testing.T) {
	for i, v := range streamVectors {
		br := NewReader(bytes.NewReader(v.output))
		for j, f := range v.fields {
			var got uint32
			for k := uint(0); k < f.n; k++ {
				b, err := br.ReadBit()
				if err != nil {
					t.Fatalf("test %d, field %d: unexpected error: %v", i, j, err)
				}
				got = got<<1 | uint32(b)
			}
			want := f.v
			if f.n < 32 {
				want &= 1<<f.n - 1
			}
			if got != want {
				t.Errorf("test %d, field %d: got 0x%x, want 0x%x", i, j, got, want)
			}
		}
		if _, err := br.ReadBit(); err != io.EOF {
			t.Errorf("test %d, mismatching error: got %v, want %v", i, err, io.EOF)
		}
		if got, want := br.Offset(), int64(len(v.output)); got != want {
			t.Errorf("test %d, offset mismatch: got %d, want %d", i, got, want)
		}
	}
}

func TestReaderErrors(t *testing.T) {
	var vectors = []struct {
		input []byte
		nbits int // Number of bits readable before the error
		err   error
	}{
		{input: nil, nbits: 0, err: io.EOF},
		{input: testutil.MustDecodeHex("80"), nbits: 0, err: io.ErrUnexpectedEOF},
		{input: testutil.MustDecodeHex("8000"), nbits: 0, err: ErrCorrupt},
		{input: testutil.MustDecodeHex("8009"), nbits: 0, err: ErrCorrupt},
		{input: testutil.MustDecodeHex("c001"), nbits: 0, err: ErrCorrupt},
		{input: testutil.MustDecodeHex("ff4001"), nbits: 8, err: ErrCorrupt},
		{input: testutil.MustDecodeHex("ffc002"), nbits: 10, err: io.EOF},
		{input: testutil.MustDecodeHex("ff0008"), nbits: 16, err: io.EOF},
	}

	for i, v := range vectors {
		br := NewReader(bytes.NewReader(v.input))
		var cnt int
		var err error
		for err == nil {
			if _, err = br.ReadBit(); err == nil {
				cnt++
			}
		}
		if cnt != v.nbits {
			t.Errorf("test %d, bit count mismatch: got %d, want %d", i, cnt, v.nbits)
		}
		if err != v.err {
			t.Errorf("test %d, mismatching error: got %v, want %v", i, err, v.err)
		}
		if _, err2 := br.ReadBit(); err2 != err {
			t.Errorf("test %d, error is not sticky: got %v, want %v", i, err2, err)
		}
	}
}

func TestReadByte(t *testing.T) {
	input := withTrailer("101 H8:41 H8:ff 1", 4)
	br := NewReader(bytes.NewBuffer(input))
	for _, want := range []uint{1, 0, 1} {
		b, err := br.ReadBit()
		assert.Nil(t, err)
		assert.Equal(t, want, b)
	}
	c, err := br.ReadByte()
	assert.Nil(t, err)
	assert.Equal(t, byte(0x41), c)
	c, err = br.ReadByte()
	assert.Nil(t, err)
	assert.Equal(t, byte(0xff), c)
	_, err = br.ReadByte()
	assert.Equal(t, io.ErrUnexpectedEOF, err)

	br.Reset(strings.NewReader(string(withTrailer("H8:7e", 8))))
	c, err = br.ReadByte()
	assert.Nil(t, err)
	assert.Equal(t, byte(0x7e), c)
	_, err = br.ReadByte()
	assert.Equal(t, io.EOF, err)
}

func TestRoundTrip(t *testing.T) {
	r := testutil.NewRand(0)
	var fields []field
	for i := 0; i < 5000; i++ {
		fields = append(fields, field{uint32(r.Int()), uint(r.Intn(MaxWriteBits + 1))})
	}

	var b bytes.Buffer
	bw := NewWriter(&b)
	for _, f := range fields {
		if err := bw.WriteBits(f.v, f.n); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Use a plain io.Reader to exercise the bufio.Reader path.
	br := NewReader(&testutil.BuggyReader{R: &b, N: int64(b.Len()), Err: io.EOF})
	for i, f := range fields {
		for k := int(f.n) - 1; k >= 0; k-- {
			got, err := br.ReadBit()
			if err != nil {
				t.Fatalf("field %d, unexpected error: %v", i, err)
			}
			if want := uint(f.v>>uint(k)) & 1; got != want {
				t.Fatalf("field %d, bit %d: got %d, want %d", i, k, got, want)
			}
		}
	}
	if _, err := br.ReadBit(); err != io.EOF {
		t.Errorf("mismatching error: got %v, want %v", err, io.EOF)
	}
}

// TestWriterBitio checks the packing against an independent MSB-first bit
// writer. Apart from the trailer, both must produce the same bytes.
func TestWriterBitio(t *testing.T) {
	r := testutil.NewRand(1)
	for i := 0; i < 50; i++ {
		var got, want bytes.Buffer
		bw := NewWriter(&got)
		iw := bitio.NewWriter(&want)
		for j, n := 0, r.Intn(300)+1; j < n; j++ {
			nb := uint(r.Intn(MaxWriteBits) + 1)
			v := uint32(r.Int()) & uint32(1<<nb-1)
			assert.NoError(t, bw.WriteBits(v, nb))
			assert.NoError(t, iw.WriteBits(uint64(v), uint8(nb)))
		}
		assert.NoError(t, bw.Flush())
		assert.NoError(t, iw.Close())

		b := got.Bytes()
		if !assert.True(t, len(b) >= 2, "test %d", i) {
			continue
		}
		cnt := int64(b[len(b)-1])
		assert.Equal(t, want.Bytes(), b[:len(b)-1], "test %d", i)
		assert.Equal(t, bw.BitsWritten(), int64(len(b)-2)*8+cnt, "test %d", i)
	}
}

func TestWriterError(t *testing.T) {
	errFail := errors.New("write failure")
	bw := NewWriter(&testutil.BuggyWriter{W: io.Discard, N: 4, Err: errFail})
	var err error
	for i := 0; i < 10 && err == nil; i++ {
		err = bw.WriteBits(0xffffffff, 32)
	}
	assert.Equal(t, errFail, err)
	assert.Equal(t, errFail, bw.WriteByte(0))
	assert.Equal(t, errFail, bw.Flush())
	assert.Equal(t, int64(4), bw.Offset())
}

func TestReaderIOError(t *testing.T) {
	errFail := errors.New("read failure")
	input := withTrailer("H32:deadbeef", 8)
	br := NewReader(&testutil.BuggyReader{R: bytes.NewReader(input), N: 2, Err: errFail})
	var err error
	for err == nil {
		_, err = br.ReadBit()
	}
	assert.Equal(t, errFail, err)
}
