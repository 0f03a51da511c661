// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build gofuzz
// +build gofuzz

package fgk

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/dsnet/dynhuff"
	"github.com/dsnet/dynhuff/fgk"
)

func Fuzz(data []byte) int {
	b, ok := testDecoder(data)
	testRoundTrip(data)
	if ok {
		// Every valid stream is the one the encoder produces for its output.
		if !bytes.Equal(encode(b), data) {
			panic("non-canonical stream")
		}
		return 1 // Favor valid inputs
	}
	return 0
}

// testDecoder checks that arbitrary input either decodes or fails with a
// format error.
func testDecoder(data []byte) ([]byte, bool) {
	zr, err := fgk.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		panic(err)
	}
	b, err := ioutil.ReadAll(zr)
	switch err {
	case nil:
		if err := zr.Close(); err != nil {
			panic(err)
		}
		return b, true
	case io.ErrUnexpectedEOF:
		return nil, false
	}
	if err, ok := err.(dynhuff.Error); !ok || !err.CorruptError() {
		panic(err)
	}
	return nil, false
}

// testRoundTrip checks that the input survives an encode and decode.
func testRoundTrip(data []byte) {
	b, ok := testDecoder(encode(data))
	if !ok {
		panic("decoder error")
	}
	if !bytes.Equal(b, data) {
		panic("mismatching bytes")
	}
}

func encode(data []byte) []byte {
	bb := new(bytes.Buffer)
	zw, err := fgk.NewWriter(bb, nil)
	if err != nil {
		panic(err)
	}
	n, err := zw.Write(data)
	if n != len(data) || err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return bb.Bytes()
}
