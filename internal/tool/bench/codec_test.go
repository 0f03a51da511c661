// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCodecs tests that every registered codec decodes its own output back
// into the original input.
func TestCodecs(t *testing.T) {
	inputs := map[string][]byte{
		"empty": nil,
		"text":  []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 500)),
		"zeros": make([]byte, 3*huffBlockSize/2),
	}
	for name := range Generators {
		b, err := LoadInput(name, 200000)
		require.NoError(t, err)
		inputs[name] = b
	}

	var names []string
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dd := inputs[name]
		t.Run(fmt.Sprintf("Input:%v", name), func(t *testing.T) {
			for _, c := range CodecNames() {
				t.Run(fmt.Sprintf("Codec:%v", c), func(t *testing.T) {
					testCodec(t, Codecs[c], dd)
				})
			}
		})
	}
}

func testCodec(t *testing.T, c Codec, dd []byte) {
	const level = 6 // Default compression on all encoders
	be := new(bytes.Buffer)
	zw := c.Enc(be, level)
	if _, err := io.Copy(zw, bytes.NewReader(dd)); err != nil {
		t.Fatalf("unexpected Write error: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("unexpected Close error: %v", err)
	}

	bd := new(bytes.Buffer)
	zr := c.Dec(bytes.NewReader(be.Bytes()))
	if _, err := io.Copy(bd, zr); err != nil {
		t.Fatalf("unexpected Read error: %v", err)
	}
	if err := zr.Close(); err != nil {
		t.Fatalf("unexpected Close error: %v", err)
	}
	if !bytes.Equal(bd.Bytes(), dd) {
		t.Errorf("data mismatch: got %d bytes, want %d bytes", bd.Len(), len(dd))
	}
}

func TestHuffBlocks(t *testing.T) {
	var vectors = []struct {
		input []byte
		modes []byte
	}{
		{bytes.Repeat([]byte("z"), 1000), []byte{blockRLE}},
		{[]byte(strings.Repeat("aaaaaaab", 1000)), []byte{blockHuff}},
		{append(make([]byte, huffBlockSize), strings.Repeat("aaaaaaab", 1000)...), []byte{blockRLE, blockHuff}},
	}

	for i, v := range vectors {
		buf := new(bytes.Buffer)
		hw := newHuffWriter(buf)
		_, err := hw.Write(v.input)
		require.NoError(t, err)
		require.NoError(t, hw.Close())

		var modes []byte
		for b := buf.Bytes(); len(b) > 0; {
			_, n := binary.Uvarint(b)
			modes = append(modes, b[n])
			plen, m := binary.Uvarint(b[n+1:])
			b = b[n+1+m+int(plen):]
		}
		assert.Equal(t, v.modes, modes, "test %d", i)
		testCodec(t, Codecs["huff0"], v.input)
	}
}

func TestHuffReaderErrors(t *testing.T) {
	var vectors = []struct {
		input  []byte
		output []byte
		err    error
	}{
		{nil, nil, nil},
		{[]byte{0x03, blockRaw, 0x03, 'a', 'b', 'c'}, []byte("abc"), nil},
		{[]byte{0x04, blockRLE, 0x01, 'x'}, []byte("xxxx"), nil},
		{[]byte{0x03, blockRaw, 0x02, 'a', 'b'}, nil, errHuffCorrupt},
		{[]byte{0x03, blockRLE, 0x02, 'a', 'b'}, nil, errHuffCorrupt},
		{[]byte{0x03, 0x07, 0x01, 'a'}, nil, errHuffCorrupt},
		{[]byte{0x00, blockRaw, 0x00}, nil, errHuffCorrupt},
		{[]byte{0x03, blockRaw, 0x03, 'a'}, nil, io.ErrUnexpectedEOF},
		{[]byte{0x03}, nil, io.ErrUnexpectedEOF},
	}

	for i, v := range vectors {
		hr := newHuffReader(bytes.NewReader(v.input))
		output := new(bytes.Buffer)
		_, err := io.Copy(output, hr)
		if err != v.err {
			t.Errorf("test %d, mismatching error: got %v, want %v", i, err, v.err)
		}
		if v.err == nil {
			assert.Equal(t, string(v.output), output.String(), "test %d", i)
		}
	}
}
