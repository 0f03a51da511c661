// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build gofuzz
// +build gofuzz

package container

import (
	"bytes"
	"io"

	"github.com/dsnet/dynhuff"
	"github.com/dsnet/dynhuff/container"
)

func Fuzz(data []byte) int {
	h, b, err := container.Decode(bytes.NewReader(data))
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == container.ErrVersion {
			return 0
		}
		if err, ok := err.(dynhuff.Error); !ok || !err.CorruptError() {
			panic(err)
		}
		return 0
	}

	// Valid files must survive another encode and decode.
	bb := new(bytes.Buffer)
	if _, err := container.Encode(bb, h.Kind, h.Image, b); err != nil {
		panic(err)
	}
	h2, b2, err := container.Decode(bb)
	if err != nil {
		panic(err)
	}
	if h2.Length != h.Length || !bytes.Equal(b2, b) {
		panic("mismatching bytes")
	}
	return 1
}
