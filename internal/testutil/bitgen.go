// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"bytes"
	"encoding/hex"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	reBin = regexp.MustCompile("^[01]{1,64}$")
	reDec = regexp.MustCompile("^D[0-9]+:[0-9]+$")
	reHex = regexp.MustCompile("^H[0-9]+:[0-9a-fA-F]{1,16}$")
	reRaw = regexp.MustCompile("^X:[0-9a-fA-F]+$")
	reQnt = regexp.MustCompile("[*][0-9]+$")
)

// DecodeBitGen decodes a BitGen formatted string into a bit stream packed
// most-significant bit first, which is the order in which codes and literals
// appear in an adaptive Huffman stream.
//
// The string is a series of tokens separated by white space. Any text on a
// line after a '#' character is a comment.
//
// A token of the pattern "[01]{1,64}" is a bit-string written left to right,
// so "10" writes a 1 bit followed by a 0 bit. This is how tree paths are
// scripted, since the left-most bit is the edge leaving the root.
//
// A token of the pattern "D[0-9]+:[0-9]+" or "H[0-9]+:[0-9a-fA-F]{1,16}" is a
// decimal or hexadecimal value written with the given bit-length, most
// significant bit first. The bit-length must be between 0 and 64 and large
// enough to hold the value. Literals are scripted as "H8:41".
//
// A token of the pattern "X:[0-9a-fA-F]+" is a run of literal bytes. It may
// only appear where the stream is byte-aligned.
//
// A trailing "*N" on any token repeats it N times.
//
// The last byte is padded with 0 bits. The trailer byte of the stream is not
// generated, since tests often need to script an invalid one.
//
// Example for the symbols "ABAC":
//	0 H8:41  # First symbol
//	1 H8:42  # NYT, literal
//	0        # A
//	11 H8:43 # NYT, literal
//
// Generated output (in hexadecimal): "20d09a18"
func DecodeBitGen(str string) ([]byte, error) {
	var toks []string
	for _, s := range strings.Split(str, "\n") {
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		toks = append(toks, strings.Fields(s)...)
	}

	var bw bitBuffer
	for _, t := range toks {
		rep := 1
		if reQnt.MatchString(t) {
			i := strings.LastIndexByte(t, '*')
			n, err := strconv.Atoi(t[i+1:])
			if err != nil {
				return nil, errors.New("testutil: invalid quantified token: " + t)
			}
			t, rep = t[:i], n
		}

		switch {
		case reBin.MatchString(t):
			var v uint64
			for _, b := range t {
				v = v<<1 | uint64(b-'0')
			}
			for i := 0; i < rep; i++ {
				bw.WriteBits64(v, uint(len(t)))
			}
		case reDec.MatchString(t) || reHex.MatchString(t):
			i := strings.IndexByte(t, ':')
			base := 10
			if t[0] == 'H' {
				base = 16
			}
			n, err1 := strconv.Atoi(t[1:i])
			v, err2 := strconv.ParseUint(t[i+1:], base, 64)
			if err1 != nil || err2 != nil || n > 64 {
				return nil, errors.New("testutil: invalid numeric token: " + t)
			}
			if n < 64 && v>>uint(n) != 0 {
				return nil, errors.New("testutil: integer overflow on token: " + t)
			}
			for i := 0; i < rep; i++ {
				bw.WriteBits64(v, uint(n))
			}
		case reRaw.MatchString(t):
			b, err := hex.DecodeString(t[2:])
			if err != nil {
				return nil, errors.New("testutil: invalid raw bytes token: " + t)
			}
			if _, err := bw.Write(bytes.Repeat(b, rep)); err != nil {
				return nil, err
			}
		default:
			return nil, errors.New("testutil: invalid token: " + t)
		}
	}
	return bw.b, nil
}

// bitBuffer packs bits most-significant first. It is kept separate from
// bitbuf.Writer so that the tests of that package check it against an
// independent packer.
type bitBuffer struct {
	b  []byte
	nb uint // Number of bits used in the last byte, 0 if aligned
}

func (b *bitBuffer) Write(buf []byte) (int, error) {
	if b.nb != 0 {
		return 0, errors.New("testutil: unaligned write")
	}
	b.b = append(b.b, buf...)
	return len(buf), nil
}

// WriteBits64 writes the lower n bits of v, starting with bit n-1.
func (b *bitBuffer) WriteBits64(v uint64, n uint) {
	for i := n; i > 0; i-- {
		if b.nb == 0 {
			b.b = append(b.b, 0x00)
		}
		if v&(1<<(i-1)) != 0 {
			b.b[len(b.b)-1] |= 0x80 >> b.nb
		}
		b.nb = (b.nb + 1) % 8
	}
}
