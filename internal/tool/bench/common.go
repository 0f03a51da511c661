// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bench compares the adaptive Huffman codec against other entropy
// coders and general purpose compressors with respect to encode speed,
// decode speed, and ratio.
package bench

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/dsnet/dynhuff/internal/testutil"
	strconv "github.com/dsnet/golib/unitconv"
)

const (
	TestEncodeRate = iota
	TestDecodeRate
	TestCompressRatio
)

type Encoder func(io.Writer, int) io.WriteCloser
type Decoder func(io.Reader) io.ReadCloser

// Codec is a matching encoder and decoder for a single format.
type Codec struct {
	Name   string
	Format string // Human readable name of the format
	Enc    Encoder
	Dec    Decoder
}

var (
	// Codecs is the set of registered codecs keyed by name.
	Codecs = make(map[string]Codec)

	// List of search paths for test files.
	Paths []string
)

// RegisterCodec registers a codec under the given name.
func RegisterCodec(name, format string, enc Encoder, dec Decoder) {
	Codecs[name] = Codec{Name: name, Format: format, Enc: enc, Dec: dec}
}

// CodecNames returns the names of all registered codecs with "fgk" first.
func CodecNames() []string {
	var s []string
	for k := range Codecs {
		if k != "fgk" {
			s = append(s, k)
		}
	}
	sort.Strings(s)
	if _, ok := Codecs["fgk"]; ok {
		s = append([]string{"fgk"}, s...)
	}
	return s
}

// BenchmarkEncoder benchmarks a single encoder on the given input data using
// the selected compression level and reports the result.
func BenchmarkEncoder(input []byte, enc Encoder, lvl int) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if enc == nil {
			b.Fatalf("unexpected error: nil Encoder")
		}
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			wr := enc(ioutil.Discard, lvl)
			_, err := io.Copy(wr, bytes.NewReader(input))
			if err := wr.Close(); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			if err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(int64(len(input)))
		}
	})
}

// BenchmarkDecoder benchmarks a single decoder on the given pre-compressed
// input data and reports the result.
func BenchmarkDecoder(input []byte, dec Decoder) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if dec == nil {
			b.Fatalf("unexpected error: nil Decoder")
		}
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			rd := dec(bufio.NewReader(bytes.NewReader(input)))
			cnt, err := io.Copy(ioutil.Discard, rd)
			if err := rd.Close(); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			if err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(cnt)
		}
	})
}

type Result struct {
	R float64 // Rate (MB/s) or ratio (rawSize/compSize)
	D float64 // Delta ratio relative to the first codec
}

// BenchmarkEncoderSuite runs multiple benchmarks across all encoders, files,
// levels, and sizes.
//
// The values returned have the following structure:
//	results: [len(files)*len(levels)*len(sizes)][len(codecs)]Result
//	names:   [len(files)*len(levels)*len(sizes)]string
func BenchmarkEncoderSuite(codecs, files []string, levels, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, files, levels, sizes, tick,
		func(input []byte, codec string, lvl int) Result {
			result := BenchmarkEncoder(input, Codecs[codec].Enc, lvl)
			return rateResult(result)
		})
}

// BenchmarkDecoderSuite runs multiple benchmarks across all decoders, files,
// levels, and sizes. Since every codec has its own format, each decoder is
// given the output of its own encoder.
func BenchmarkDecoderSuite(codecs, files []string, levels, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, files, levels, sizes, tick,
		func(input []byte, codec string, lvl int) Result {
			output, err := encode(input, Codecs[codec].Enc, lvl)
			if err != nil {
				return Result{}
			}
			result := BenchmarkDecoder(output, Codecs[codec].Dec)
			return rateResult(result)
		})
}

// BenchmarkRatioSuite computes the compression ratio across all encoders,
// files, levels, and sizes.
func BenchmarkRatioSuite(codecs, files []string, levels, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, files, levels, sizes, tick,
		func(input []byte, codec string, lvl int) Result {
			output, err := encode(input, Codecs[codec].Enc, lvl)
			if err != nil || len(output) == 0 {
				return Result{}
			}
			ratio := float64(len(input)) / float64(len(output))
			return Result{R: ratio}
		})
}

func encode(input []byte, enc Encoder, lvl int) ([]byte, error) {
	if enc == nil {
		return nil, fmt.Errorf("nil Encoder")
	}
	buf := new(bytes.Buffer)
	wr := enc(buf, lvl)
	if _, err := io.Copy(wr, bytes.NewReader(input)); err != nil {
		return nil, err
	}
	if err := wr.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rateResult(result testing.BenchmarkResult) Result {
	if result.N == 0 {
		return Result{}
	}
	us := (float64(result.T.Nanoseconds()) / 1e3) / float64(result.N)
	rate := float64(result.Bytes) / us
	return Result{R: rate}
}

type benchFunc func(input []byte, codec string, level int) Result

func benchmarkSuite(codecs, files []string, levels, sizes []int, tick func(), run benchFunc) ([][]Result, []string) {
	// Allocate buffers for the result.
	d0 := len(files) * len(levels) * len(sizes)
	d1 := len(codecs)
	results := make([][]Result, d0)
	for i := range results {
		results[i] = make([]Result, d1)
	}
	names := make([]string, d0)

	// Run the benchmark for every codec, file, level, and size.
	var i int
	for _, f := range files {
		for _, l := range levels {
			for _, n := range sizes {
				b, err := LoadInput(f, n)
				name := getName(f, l, len(b))
				for j, c := range codecs {
					if tick != nil {
						tick()
					}
					names[i] = name
					if err == nil {
						results[i][j] = run(b, c, l)
					}
					results[i][j].D = results[i][j].R / results[i][0].R
				}
				i++
			}
		}
	}
	return results, names
}

// Generators are synthetic inputs that may be named in place of a file.
var Generators = map[string]func(n int) []byte{
	"random.gen": func(n int) []byte {
		return testutil.NewRand(0).Bytes(n)
	},
	"gradient.gen": func(n int) []byte {
		w := 256
		return testutil.Gradient(w, (n+w-1)/w, 0)[:n]
	},
	"skewed.gen": func(n int) []byte {
		return testutil.NewRand(0).Skewed(n, 64)
	},
}

// LoadInput loads n bytes of the named input, which is either a generator
// or a file found on one of the search paths.
func LoadInput(name string, n int) ([]byte, error) {
	if gen, ok := Generators[name]; ok {
		if n < 0 {
			n = 1 << 20
		}
		return gen(n), nil
	}
	return testutil.LoadFile(getPath(name), n)
}

func getPath(file string) string {
	if path.IsAbs(file) {
		return file
	}
	for _, p := range Paths {
		p = path.Join(p, file)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return file
}

func getName(f string, l, n int) string {
	var sn string
	switch n {
	case 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10, 1e11, 1e12:
		s := fmt.Sprintf("%e", float64(n))
		re := regexp.MustCompile("\\.0*e\\+0*")
		sn = re.ReplaceAllString(s, "e")
	default:
		s := strconv.FormatPrefix(float64(n), strconv.Base1024, 2)
		sn = strings.Replace(s, ".00", "", -1)
	}
	return fmt.Sprintf("%s:%d:%s", path.Base(f), l, sn)
}
