// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package container implements the file format written by the dynhuff tool.
//
// A file consists of a header followed by a single fgk stream that extends to
// the end of the file:
//
//	magic    "DHUF"
//	version  1 byte
//	kind     1 byte (0 for raw data, 1 for a P5 graymap)
//	width    uvarint (0 for raw data)
//	height   uvarint (0 for raw data)
//	maxval   uvarint (0 for raw data)
//	length   uvarint, number of symbols in the stream
//	digest   8 bytes, big-endian XXH64 of the symbols
//	payload  fgk stream
package container

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/dsnet/dynhuff/fgk"
	"github.com/dsnet/dynhuff/internal"
	"github.com/dsnet/dynhuff/pgm"
)

const (
	magic   = "DHUF"
	version = 1

	maxHeaderSize = len(magic) + 2 + 4*binary.MaxVarintLen64 + 8
)

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string       { return "container: " + string(e) }
func (e Error) CorruptError() bool { return e != ErrVersion }
func (e Error) ClosedError() bool  { return false }

var (
	ErrMagic    error = Error("invalid magic")
	ErrVersion  error = Error("unsupported version")
	ErrCorrupt  error = Error("header is corrupted")
	ErrChecksum error = Error("checksum mismatch")
)

// Kind identifies what the symbols of a file represent.
type Kind byte

const (
	KindRaw Kind = iota // Arbitrary bytes
	KindPGM             // Samples of a P5 graymap
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindPGM:
		return "pgm"
	}
	return "unknown"
}

// Header is the header of a container file.
type Header struct {
	Kind   Kind
	Image  pgm.Header // Geometry of the image for KindPGM
	Length int64      // Number of symbols
	Digest uint64     // XXH64 of the symbols
}

// WriteHeader writes h to w.
func WriteHeader(w io.Writer, h Header) error {
	if h.Length < 0 || h.Kind > KindPGM {
		return ErrCorrupt
	}
	var img pgm.Header
	if h.Kind == KindPGM {
		if h.Image.Size() != h.Length {
			return Error("image size does not match length")
		}
		img = h.Image
	}

	b := make([]byte, 0, maxHeaderSize)
	b = append(b, magic...)
	b = append(b, version, byte(h.Kind))
	b = binary.AppendUvarint(b, uint64(img.Width))
	b = binary.AppendUvarint(b, uint64(img.Height))
	b = binary.AppendUvarint(b, uint64(img.MaxVal))
	b = binary.AppendUvarint(b, uint64(h.Length))
	b = binary.BigEndian.AppendUint64(b, h.Digest)
	_, err := w.Write(b)
	return err
}

// ReadHeader reads a header from r.
func ReadHeader(r io.ByteReader) (Header, error) {
	var h Header
	var buf [len(magic) + 2]byte
	for i := range buf {
		c, err := r.ReadByte()
		if err != nil {
			return h, errEOF(err)
		}
		buf[i] = c
	}
	if string(buf[:len(magic)]) != magic {
		return h, ErrMagic
	}
	if buf[len(magic)] != version {
		return h, ErrVersion
	}
	h.Kind = Kind(buf[len(magic)+1])
	if h.Kind > KindPGM {
		return h, ErrCorrupt
	}

	var vals [4]uint64
	for i := range vals {
		v, err := binary.ReadUvarint(r)
		if err != nil {
			return h, errEOF(err)
		}
		if v > 1<<48 {
			return h, ErrCorrupt
		}
		vals[i] = v
	}
	h.Length = int64(vals[3])
	for i := 0; i < 8; i++ {
		c, err := r.ReadByte()
		if err != nil {
			return h, errEOF(err)
		}
		h.Digest = h.Digest<<8 | uint64(c)
	}

	if h.Kind == KindPGM {
		h.Image = pgm.Header{Width: int(vals[0]), Height: int(vals[1]), MaxVal: int(vals[2])}
		if vals[0] == 0 || vals[1] == 0 || vals[0] > pgm.MaxSize/vals[1] ||
			h.Image.MaxVal <= 0 || h.Image.MaxVal > 255 || h.Image.Size() != h.Length {
			return h, ErrCorrupt
		}
	} else if vals[0] != 0 || vals[1] != 0 || vals[2] != 0 {
		return h, ErrCorrupt
	}
	return h, nil
}

// Stats describes the result of Encode.
type Stats struct {
	Header  Header
	Size    int64     // Total number of bytes written
	Payload int64     // Number of bytes of the fgk stream
	Codes   fgk.Codes // Final code of every symbol
	Tree    string    // Final tree shape
}

// Encode writes data as a complete container file.
// The image header is only used for KindPGM.
func Encode(w io.Writer, kind Kind, img pgm.Header, data []byte) (Stats, error) {
	h := Header{
		Kind:   kind,
		Length: int64(len(data)),
		Digest: xxhash.Sum64(data),
	}
	if kind == KindPGM {
		h.Image = pgm.Header{Width: img.Width, Height: img.Height, MaxVal: img.MaxVal}
	}
	st := Stats{Header: h}

	var hdr bytes.Buffer
	if err := WriteHeader(&hdr, h); err != nil {
		return st, err
	}
	if _, err := w.Write(hdr.Bytes()); err != nil {
		return st, err
	}
	st.Size = int64(hdr.Len())

	zw, err := fgk.NewWriter(w, nil)
	if err != nil {
		return st, err
	}
	_, err = zw.Write(data)
	if err == nil {
		err = zw.Close()
	}
	st.Payload = zw.OutputOffset
	st.Size += zw.OutputOffset
	st.Codes = zw.Tree().Alphabet()
	st.Tree = zw.Tree().String()
	return st, err
}

// Decode reads a complete container file and verifies its digest.
func Decode(r io.Reader) (Header, []byte, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	h, err := ReadHeader(br)
	if err != nil {
		return h, nil, err
	}

	zr, err := fgk.NewReader(br, nil)
	if err != nil {
		return h, nil, err
	}
	var out bytes.Buffer
	if h.Length < 1<<26 {
		out.Grow(int(h.Length))
	}
	digest := xxhash.New()
	cnt, err := io.Copy(io.MultiWriter(&out, digest), io.LimitReader(zr, h.Length+1))
	if err != nil {
		return h, nil, err
	}
	if cnt != h.Length {
		return h, nil, ErrCorrupt
	}
	if digest.Sum64() != h.Digest && !internal.GoFuzz {
		return h, nil, ErrChecksum
	}
	return h, out.Bytes(), nil
}

func errEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
