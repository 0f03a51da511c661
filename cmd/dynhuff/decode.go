// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/dsnet/dynhuff/container"
	"github.com/dsnet/dynhuff/pgm"
)

func runDecode(args []string) error {
	var verbose bool
	var input, output string
	fs := newFlagSet("decode", &verbose)
	fs.StringVar(&input, "i", "", "")
	fs.StringVar(&output, "o", "", "")
	if err := parseFlags(fs, args, &verbose); err != nil {
		return err
	}
	if input == "" || output == "" {
		return errUsage
	}

	ts := time.Now()
	h, err := decodeFile(input, output)
	if err != nil {
		return err
	}
	te := time.Now()

	log.Infof("decoded %s (%v) in %v", input, h.Kind, te.Sub(ts))
	log.Infof("size: %s", formatSize(h.Length))
	log.Debugf("digest: %016x", h.Digest)
	return nil
}

// decodeFile expands the container at input into output, which is a PGM
// image or the raw symbols depending on the container kind.
func decodeFile(input, output string) (container.Header, error) {
	f, err := os.Open(input)
	if err != nil {
		return container.Header{}, err
	}
	defer f.Close()

	h, data, err := container.Decode(bufio.NewReader(f))
	if err != nil {
		return h, err
	}
	err = writeFile(output, func(w io.Writer) error {
		if h.Kind == container.KindPGM {
			img := h.Image
			img.Comment = progName
			return pgm.Encode(w, img, data)
		}
		_, err := w.Write(data)
		return err
	})
	return h, err
}
