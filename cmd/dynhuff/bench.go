// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dsnet/dynhuff/internal/tool/bench"
	strconv "github.com/dsnet/golib/unitconv"
)

const (
	defaultLevels = "6"
	defaultSizes  = "1e4,1e5,1e6"
)

var (
	testToEnum = map[string]int{
		"encRate": bench.TestEncodeRate,
		"decRate": bench.TestDecodeRate,
		"ratio":   bench.TestCompressRatio,
	}
	enumToTest = map[int]string{
		bench.TestEncodeRate:    "encRate",
		bench.TestDecodeRate:    "decRate",
		bench.TestCompressRatio: "ratio",
	}
)

func defaultTests() string {
	var d []int
	for k := range enumToTest {
		d = append(d, k)
	}
	sort.Ints(d)
	var s []string
	for _, v := range d {
		s = append(s, enumToTest[v])
	}
	return strings.Join(s, ",")
}

func defaultFiles() []string {
	var s []string
	for k := range bench.Generators {
		s = append(s, k)
	}
	sort.Strings(s)
	return s
}

// benchConfig is the parsed form of the bench flags.
type benchConfig struct {
	codecs, paths, files []string
	tests, levels, sizes []int
}

var sep = regexp.MustCompile("[,:]")

func parseBenchConfig(codecs, paths, tests, levels, sizes string, files []string) (benchConfig, error) {
	var c benchConfig
	for _, s := range sep.Split(codecs, -1) {
		if _, ok := bench.Codecs[s]; !ok {
			return c, fmt.Errorf("invalid codec: %q", s)
		}
		c.codecs = append(c.codecs, s)
	}
	if paths != "" {
		c.paths = sep.Split(paths, -1)
	}
	c.files = files
	if len(c.files) == 0 {
		c.files = defaultFiles()
	}
	for _, s := range sep.Split(tests, -1) {
		t, ok := testToEnum[s]
		if !ok {
			return c, fmt.Errorf("invalid test: %q", s)
		}
		c.tests = append(c.tests, t)
	}
	for _, s := range sep.Split(levels, -1) {
		lvl, err := strconv.ParsePrefix(s, strconv.AutoParse)
		if err != nil {
			return c, fmt.Errorf("invalid level: %q", s)
		}
		c.levels = append(c.levels, int(lvl))
	}
	for _, s := range sep.Split(sizes, -1) {
		nf, err := strconv.ParsePrefix(s, strconv.AutoParse)
		if err != nil || nf <= 0 {
			return c, fmt.Errorf("invalid size: %q", s)
		}
		c.sizes = append(c.sizes, int(nf))
	}
	return c, nil
}

func runBench(args []string) error {
	var verbose bool
	var codecs, paths, tests, levels, sizes string
	fs := newFlagSet("bench", &verbose)
	fs.StringVar(&codecs, "codecs", strings.Join(bench.CodecNames(), ","), "")
	fs.StringVar(&paths, "paths", ".", "")
	fs.StringVar(&tests, "tests", defaultTests(), "")
	fs.StringVar(&levels, "levels", defaultLevels, "")
	fs.StringVar(&sizes, "sizes", defaultSizes, "")
	if err := parseFlags(fs, args, &verbose); err != nil {
		return err
	}
	c, err := parseBenchConfig(codecs, paths, tests, levels, sizes, fs.Args())
	if err != nil {
		return err
	}

	ts := time.Now()
	bench.Paths = c.paths
	runBenchmarks(os.Stdout, c)
	te := time.Now()
	log.Infof("runtime: %v", te.Sub(ts))
	return nil
}

func runBenchmarks(w io.Writer, c benchConfig) {
	for _, t := range c.tests {
		var results [][]bench.Result
		var names []string
		var title, suffix string

		fmt.Fprintf(w, "BENCHMARK: %s\n", enumToTest[t])
		log.Debugf("codecs %v on %d inputs", c.codecs, len(c.files)*len(c.levels)*len(c.sizes))

		// Progress ticker.
		var cnt int
		tick := func() {
			total := len(c.codecs) * len(c.files) * len(c.levels) * len(c.sizes)
			pct := 100.0 * float64(cnt) / float64(total)
			fmt.Fprintf(os.Stderr, "\t[%6.2f%%] %d of %d\r", pct, cnt, total)
			cnt++
		}

		// Perform the bench. This may take some time.
		switch t {
		case bench.TestEncodeRate:
			title, suffix = "MB/s", ""
			results, names = bench.BenchmarkEncoderSuite(c.codecs, c.files, c.levels, c.sizes, tick)
		case bench.TestDecodeRate:
			title, suffix = "MB/s", ""
			results, names = bench.BenchmarkDecoderSuite(c.codecs, c.files, c.levels, c.sizes, tick)
		case bench.TestCompressRatio:
			title, suffix = "ratio", "x"
			results, names = bench.BenchmarkRatioSuite(c.codecs, c.files, c.levels, c.sizes, tick)
		default:
			panic("unknown test")
		}

		bench.PrintResults(w, results, names, c.codecs, title, suffix)
		fmt.Fprintln(w)
	}
}
