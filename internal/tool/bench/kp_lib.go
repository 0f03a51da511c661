// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build !no_kp_lib
// +build !no_kp_lib

package bench

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/huff0"
	"github.com/klauspost/compress/zstd"
)

func init() {
	RegisterCodec("kpflate", "flate",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := flate.NewWriter(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		},
		func(r io.Reader) io.ReadCloser {
			return flate.NewReader(r)
		})
	RegisterCodec("zstd", "zstandard",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(lvl)))
			if err != nil {
				panic(err)
			}
			return zw
		},
		func(r io.Reader) io.ReadCloser {
			zr, err := zstd.NewReader(r)
			if err != nil {
				panic(err)
			}
			return zr.IOReadCloser()
		})
	RegisterCodec("huff0", "static huffman",
		func(w io.Writer, lvl int) io.WriteCloser {
			return newHuffWriter(w)
		},
		func(r io.Reader) io.ReadCloser {
			return newHuffReader(r)
		})
}

// Modes of a huff0 block.
const (
	blockRaw  = 0
	blockHuff = 1
	blockRLE  = 2
)

const huffBlockSize = huff0.BlockSizeMax - 1

var errHuffCorrupt = errors.New("huff0 block: corrupt input")

// huffWriter frames the input into independent blocks that are each
// compressed with a static Huffman table. Every block is written as the
// uvarint raw length, the mode byte, the uvarint payload length, and the
// payload.
type huffWriter struct {
	wr      io.Writer
	scratch huff0.Scratch
	buf     []byte
	hdr     []byte
	err     error
}

func newHuffWriter(w io.Writer) *huffWriter {
	hw := &huffWriter{wr: w, buf: make([]byte, 0, huffBlockSize)}
	hw.scratch.Reuse = huff0.ReusePolicyNone
	return hw
}

func (hw *huffWriter) Write(buf []byte) (int, error) {
	var cnt int
	for len(buf) > 0 && hw.err == nil {
		n := copy(hw.buf[len(hw.buf):cap(hw.buf)], buf)
		hw.buf = hw.buf[:len(hw.buf)+n]
		buf = buf[n:]
		cnt += n
		if len(hw.buf) == cap(hw.buf) {
			hw.err = hw.flush()
		}
	}
	return cnt, hw.err
}

func (hw *huffWriter) flush() error {
	if len(hw.buf) == 0 {
		return nil
	}
	mode, payload := byte(blockHuff), []byte(nil)
	out, _, err := huff0.Compress1X(hw.buf, &hw.scratch)
	switch err {
	case nil:
		payload = out
	case huff0.ErrIncompressible:
		mode, payload = blockRaw, hw.buf
	case huff0.ErrUseRLE:
		mode, payload = blockRLE, hw.buf[:1]
	default:
		return err
	}

	hw.hdr = binary.AppendUvarint(hw.hdr[:0], uint64(len(hw.buf)))
	hw.hdr = append(hw.hdr, mode)
	hw.hdr = binary.AppendUvarint(hw.hdr, uint64(len(payload)))
	if _, err := hw.wr.Write(hw.hdr); err != nil {
		return err
	}
	if _, err := hw.wr.Write(payload); err != nil {
		return err
	}
	hw.buf = hw.buf[:0]
	return nil
}

func (hw *huffWriter) Close() error {
	if hw.err == nil {
		hw.err = hw.flush()
	}
	return hw.err
}

// huffReader decodes the blocks produced by huffWriter.
type huffReader struct {
	rd      *bufio.Reader
	scratch *huff0.Scratch
	payload []byte
	toRead  []byte
	err     error
}

func newHuffReader(r io.Reader) *huffReader {
	return &huffReader{rd: bufio.NewReader(r)}
}

func (hr *huffReader) Read(buf []byte) (int, error) {
	for len(hr.toRead) == 0 && hr.err == nil {
		hr.err = hr.readBlock()
	}
	if len(hr.toRead) > 0 {
		n := copy(buf, hr.toRead)
		hr.toRead = hr.toRead[n:]
		return n, nil
	}
	return 0, hr.err
}

func (hr *huffReader) readBlock() error {
	rawLen, err := binary.ReadUvarint(hr.rd)
	if err != nil {
		return err // Clean io.EOF between blocks
	}
	mode, err := hr.rd.ReadByte()
	if err != nil {
		return io.ErrUnexpectedEOF
	}
	n, err := binary.ReadUvarint(hr.rd)
	if err != nil {
		return io.ErrUnexpectedEOF
	}
	if rawLen == 0 || rawLen > huffBlockSize || n > huffBlockSize {
		return errHuffCorrupt
	}
	if uint64(cap(hr.payload)) < n {
		hr.payload = make([]byte, n)
	}
	hr.payload = hr.payload[:n]
	if _, err := io.ReadFull(hr.rd, hr.payload); err != nil {
		return io.ErrUnexpectedEOF
	}

	switch mode {
	case blockRaw:
		if n != rawLen {
			return errHuffCorrupt
		}
		hr.toRead = hr.payload
	case blockRLE:
		if n != 1 {
			return errHuffCorrupt
		}
		out := make([]byte, rawLen)
		for i := range out {
			out[i] = hr.payload[0]
		}
		hr.toRead = out
	case blockHuff:
		s, remain, err := huff0.ReadTable(hr.payload, hr.scratch)
		if err != nil {
			return err
		}
		hr.scratch = s
		out, err := s.Decoder().Decompress1X(make([]byte, 0, rawLen), remain)
		if err != nil {
			return err
		}
		if uint64(len(out)) != rawLen {
			return errHuffCorrupt
		}
		hr.toRead = out
	default:
		return errHuffCorrupt
	}
	return nil
}

func (hr *huffReader) Close() error {
	if hr.err == io.EOF {
		return nil
	}
	return hr.err
}
