// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package fgk

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/dsnet/dynhuff"
	"github.com/dsnet/dynhuff/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTrailer appends the trailer byte to a BitGen generated stream.
func withTrailer(s string, cnt byte) []byte {
	return append(testutil.MustDecodeBitGen(s), cnt)
}

func encode(t testing.TB, input []byte) []byte {
	var b bytes.Buffer
	zw, err := NewWriter(&b, nil)
	require.Nil(t, err)
	cnt, err := zw.Write(input)
	require.Nil(t, err)
	require.Equal(t, len(input), cnt)
	require.Nil(t, zw.Close())
	return b.Bytes()
}

func decode(input []byte) ([]byte, error) {
	zr, err := NewReader(bytes.NewReader(input), nil)
	if err != nil {
		return nil, err
	}
	output, err := ioutil.ReadAll(zr)
	if err == nil {
		err = zr.Close()
	}
	return output, err
}

func TestEncodeVectors(t *testing.T) {
	var vectors = []struct {
		desc   string
		input  string
		output []byte
	}{{
		desc:   "empty input",
		input:  "",
		output: []byte{},
	}, {
		desc:   "single symbol",
		input:  "x",
		output: withTrailer("0 H8:78", 1),
	}, {
		desc:   "repeated symbol",
		input:  "xx",
		output: withTrailer("0 H8:78 0", 2),
	}, {
		desc:   "two symbols",
		input:  "xy",
		output: withTrailer("0 H8:78 1 H8:79", 2),
	}, {
		desc:  "new symbols grow the NYT code",
		input: "ABAC",
		output: withTrailer(`
			0 H8:41  # First symbol
			1 H8:42  # NYT, literal
			0        # A
			11 H8:43 # NYT, literal
		`, 5),
	}}

	for i, v := range vectors {
		output := encode(t, []byte(v.input))
		if !bytes.Equal(output, v.output) {
			t.Errorf("test %d, %s: output mismatch:\ngot  %x\nwant %x", i, v.desc, output, v.output)
		}
	}
}

func TestDecodeVectors(t *testing.T) {
	var vectors = []struct {
		desc   string
		input  []byte
		output string
		err    error
	}{{
		desc:  "empty stream",
		input: nil,
	}, {
		desc:   "first symbol",
		input:  withTrailer("0 H8:41", 1),
		output: "A",
	}, {
		desc:   "clean end after a leaf",
		input:  withTrailer("0 H8:41 1 H8:42 0", 3),
		output: "ABA",
	}, {
		desc:  "first bit must be zero",
		input: withTrailer("1 H8:41", 1),
		err:   ErrCorrupt,
	}, {
		desc:  "truncated first literal",
		input: withTrailer("0 0100", 5),
		err:   io.ErrUnexpectedEOF,
	}, {
		desc:   "truncated literal after NYT",
		input:  withTrailer("0 H8:41 1 0100", 6),
		output: "A",
		err:    io.ErrUnexpectedEOF,
	}, {
		desc:   "truncated code",
		input:  withTrailer("0 H8:41 1 H8:42 1", 3),
		output: "AB",
		err:    io.ErrUnexpectedEOF,
	}, {
		desc:   "literal already in the tree",
		input:  withTrailer("0 H8:41 1 H8:41", 2),
		output: "A",
		err:    ErrCorrupt,
	}, {
		desc:  "invalid trailer",
		input: testutil.MustDecodeHex("20a009"),
		err:   ErrCorrupt,
	}, {
		desc:  "non-zero padding",
		input: testutil.MustDecodeHex("20ff01"),
		err:   ErrCorrupt,
	}, {
		desc:  "missing trailer",
		input: testutil.MustDecodeHex("20"),
		err:   io.ErrUnexpectedEOF,
	}}

	for i, v := range vectors {
		output, err := decode(v.input)
		if string(output) != v.output {
			t.Errorf("test %d, %s: output mismatch: got %q, want %q", i, v.desc, output, v.output)
		}
		if err != v.err {
			t.Errorf("test %d, %s: mismatching error: got %v, want %v", i, v.desc, err, v.err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	r := testutil.NewRand(0)
	var vectors = []struct {
		name  string
		input []byte
	}{
		{"Empty", nil},
		{"One", []byte{0x00}},
		{"Two", []byte{0xff, 0xff}},
		{"Text", []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 100))},
		{"Zeros", make([]byte, 1e5)},
		{"Alphabet", testutil.ResizeData([]byte{0}, 256)},
		{"Random", r.Bytes(1e5)},
		{"Image", testutil.Gradient(512, 512, 0)},
	}
	for i := range vectors[5].input {
		vectors[5].input[i] = byte(i)
	}

	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			var b bytes.Buffer
			zw, err := NewWriter(&b, nil)
			require.Nil(t, err)
			_, err = io.Copy(zw, bytes.NewReader(v.input))
			require.Nil(t, err)
			require.Nil(t, zw.Close())
			assert.Equal(t, int64(len(v.input)), zw.InputOffset)
			assert.Equal(t, int64(b.Len()), zw.OutputOffset)

			zr, err := NewReader(bytes.NewReader(b.Bytes()), nil)
			require.Nil(t, err)
			output, err := ioutil.ReadAll(zr)
			require.Nil(t, err)
			require.Nil(t, zr.Close())
			assert.Equal(t, int64(b.Len()), zr.InputOffset)
			assert.Equal(t, int64(len(v.input)), zr.OutputOffset)
			if !bytes.Equal(output, v.input) {
				t.Fatalf("output mismatch: got %d bytes, want %d bytes", len(output), len(v.input))
			}

			// Both sides must have evolved the same tree.
			if len(v.input) > 0 {
				assert.Equal(t, zw.Tree().Alphabet(), zr.Tree().Alphabet())
			}
		})
	}
}

func TestCompression(t *testing.T) {
	// Text with a small alphabet must compress, while random data must not
	// grow by much more than the cost of sending every literal once.
	txt := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200))
	assert.True(t, len(encode(t, txt)) < len(txt)*5/8)

	rnd := testutil.NewRand(1).Bytes(1 << 16)
	assert.True(t, len(encode(t, rnd)) < len(rnd)*105/100)
}

func TestWriterLimit(t *testing.T) {
	var b bytes.Buffer
	zw, err := NewWriter(&b, &WriterConfig{MaxSymbols: 3})
	require.Nil(t, err)
	cnt, err := zw.Write([]byte("hello"))
	assert.Equal(t, 3, cnt)
	assert.Equal(t, ErrTooLarge, err)
	assert.Equal(t, ErrTooLarge, zw.Close())

	_, err = NewWriter(&b, &WriterConfig{MaxSymbols: -1})
	assert.NotNil(t, err)
}

func TestWriterClose(t *testing.T) {
	var b bytes.Buffer
	zw, err := NewWriter(&b, nil)
	require.Nil(t, err)
	require.Nil(t, zw.WriteByte('a'))
	require.Nil(t, zw.Close())
	require.Nil(t, zw.Close())
	_, err = zw.Write([]byte("b"))
	assert.Equal(t, ErrClosed, err)

	// Reset allows the Writer to start a new stream.
	var b2 bytes.Buffer
	require.Nil(t, zw.Reset(&b2))
	_, err = zw.Write([]byte("a"))
	require.Nil(t, err)
	require.Nil(t, zw.Close())
	assert.Equal(t, b.Bytes(), b2.Bytes())
}

func TestReaderReset(t *testing.T) {
	s1 := encode(t, []byte("first stream"))
	s2 := encode(t, []byte("second"))

	zr, err := NewReader(bytes.NewReader(s1), nil)
	require.Nil(t, err)
	out, err := ioutil.ReadAll(zr)
	require.Nil(t, err)
	assert.Equal(t, "first stream", string(out))
	require.Nil(t, zr.Close())
	_, err = zr.Read(make([]byte, 1))
	assert.Equal(t, ErrClosed, err)

	require.Nil(t, zr.Reset(bytes.NewBuffer(s2)))
	for _, want := range []byte("second") {
		c, err := zr.ReadByte()
		require.Nil(t, err)
		assert.Equal(t, want, c)
	}
	_, err = zr.ReadByte()
	assert.Equal(t, io.EOF, err)
}

func TestWriterError(t *testing.T) {
	errFail := errors.New("write failure")
	input := testutil.NewRand(2).Bytes(1 << 12)
	for _, n := range []int64{0, 1, 8, 100} {
		zw, err := NewWriter(&testutil.BuggyWriter{W: ioutil.Discard, N: n, Err: errFail}, nil)
		require.Nil(t, err)
		_, err = zw.Write(input)
		if err == nil {
			err = zw.Close()
		}
		assert.Equal(t, errFail, err, "limit %d", n)
		assert.Equal(t, errFail, zw.Close(), "limit %d", n)
	}
}

func TestReaderError(t *testing.T) {
	errFail := errors.New("read failure")
	input := testutil.NewRand(3).Bytes(1 << 12)
	stream := encode(t, input)
	for _, n := range []int64{0, 1, 100, int64(len(stream) / 2)} {
		rd := &testutil.BuggyReader{R: bytes.NewReader(stream), N: n, Err: errFail}
		zr, err := NewReader(rd, nil)
		require.Nil(t, err)
		output, err := ioutil.ReadAll(zr)
		assert.Equal(t, errFail, err, "limit %d", n)
		assert.True(t, bytes.HasPrefix(input, output), "limit %d", n)
		assert.Equal(t, errFail, zr.Close(), "limit %d", n)
	}
}

func TestTruncated(t *testing.T) {
	input := []byte(strings.Repeat("adaptive huffman coding ", 20))
	stream := encode(t, input)
	for n := 0; n < len(stream); n++ {
		// The last byte of a truncated stream is taken as the trailer, so the
		// result may even look valid. It must never be a crash.
		output, err := decode(stream[:n])
		switch err {
		case nil, io.ErrUnexpectedEOF, ErrCorrupt:
		default:
			t.Errorf("length %d: unexpected error: %v", n, err)
		}
		if bytes.Equal(output, input) {
			t.Errorf("length %d: truncated stream decoded to the full input", n)
		}
	}
}

func TestErrorInterface(t *testing.T) {
	assert.Implements(t, (*dynhuff.Error)(nil), ErrCorrupt)
	assert.True(t, ErrCorrupt.(dynhuff.Error).CorruptError())
	assert.False(t, ErrCorrupt.(dynhuff.Error).ClosedError())
	assert.True(t, ErrClosed.(dynhuff.Error).ClosedError())
	assert.Equal(t, "fgk: stream is corrupted", ErrCorrupt.Error())

	assert.Implements(t, (*io.WriteCloser)(nil), new(Writer))
	assert.Implements(t, (*io.ByteWriter)(nil), new(Writer))
	assert.Implements(t, (*io.ReadCloser)(nil), new(Reader))
	assert.Implements(t, (*io.ByteReader)(nil), new(Reader))
}

func BenchmarkEncode(b *testing.B) {
	input := testutil.Gradient(512, 512, 0)
	zw, _ := NewWriter(ioutil.Discard, nil)
	b.SetBytes(int64(len(input)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		zw.Reset(ioutil.Discard)
		zw.Write(input)
		zw.Close()
	}
}

func BenchmarkDecode(b *testing.B) {
	input := testutil.Gradient(512, 512, 0)
	stream := encode(b, input)
	rd := bytes.NewReader(stream)
	zr, _ := NewReader(rd, nil)
	b.SetBytes(int64(len(input)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rd.Reset(stream)
		zr.Reset(rd)
		io.Copy(ioutil.Discard, zr)
	}
}
