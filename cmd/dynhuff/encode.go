// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"time"

	"github.com/dsnet/dynhuff/container"
	"github.com/dsnet/dynhuff/pgm"
	strconv "github.com/dsnet/golib/unitconv"
)

var errUsage = errors.New("both -i and -o must be provided")

func runEncode(args []string) error {
	var verbose, raw, stats bool
	var input, output string
	fs := newFlagSet("encode", &verbose)
	fs.BoolVar(&raw, "raw", false, "")
	fs.BoolVar(&stats, "stats", false, "")
	fs.StringVar(&input, "i", "", "")
	fs.StringVar(&output, "o", "", "")
	if err := parseFlags(fs, args, &verbose); err != nil {
		return err
	}
	if input == "" || output == "" {
		return errUsage
	}

	ts := time.Now()
	st, err := encodeFile(input, output, raw)
	if err != nil {
		return err
	}
	te := time.Now()

	h := st.Header
	if h.Kind == container.KindPGM {
		log.Infof("image: %dx%d, maxval %d", h.Image.Width, h.Image.Height, h.Image.MaxVal)
	}
	log.Infof("encoded %s in %v", input, te.Sub(ts))
	log.Infof("size: %s -> %s (ratio %.3f)", formatSize(h.Length), formatSize(st.Size), ratio(h.Length, st.Size))
	if h.Length > 0 {
		log.Infof("rate: %.3f bits/symbol, %d distinct symbols", float64(8*st.Payload)/float64(h.Length), len(st.Codes))
	}
	log.Debugf("digest: %016x", h.Digest)
	log.Debugf("tree: %s", st.Tree)
	if stats {
		st.Codes.SortByWeight()
		log.Infof("alphabet: %v", st.Codes)
	}
	return nil
}

// encodeFile compresses the input file into a container at output.
// Unless raw is set, the input must be a binary PGM image.
func encodeFile(input, output string, raw bool) (container.Stats, error) {
	buf, err := ioutil.ReadFile(input)
	if err != nil {
		return container.Stats{}, err
	}

	kind, img, data := container.KindRaw, pgm.Header{}, buf
	if !raw {
		kind = container.KindPGM
		img, data, err = pgm.Decode(bytes.NewReader(buf))
		if err != nil {
			return container.Stats{}, err
		}
		log.Debugf("read %s: %q", input, img.Comment)
	}

	var st container.Stats
	err = writeFile(output, func(w io.Writer) error {
		var err error
		st, err = container.Encode(w, kind, img, data)
		return err
	})
	return st, err
}

// writeFile creates the output file and fills it with fn. The file is
// removed if anything fails.
func writeFile(output string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			log.Debugf("removing partial output %s", output)
			os.Remove(output)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return err
	}
	return bw.Flush()
}

func formatSize(n int64) string {
	return strconv.FormatPrefix(float64(n), strconv.Base1024, 2) + "B"
}

func ratio(raw, comp int64) float64 {
	if comp == 0 {
		return 0
	}
	return float64(raw) / float64(comp)
}
