// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build !no_ds_lib
// +build !no_ds_lib

package bench

import (
	"io"

	"github.com/dsnet/dynhuff/fgk"
)

func init() {
	RegisterCodec("fgk", "adaptive huffman",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := fgk.NewWriter(w, nil)
			if err != nil {
				panic(err)
			}
			return zw
		},
		func(r io.Reader) io.ReadCloser {
			zr, err := fgk.NewReader(r, nil)
			if err != nil {
				panic(err)
			}
			return zr
		})
}
