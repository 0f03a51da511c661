// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// PrintResults writes the results of a suite to w as a padded table with
// one row per input and a value and delta column for every codec.
func PrintResults(w io.Writer, results [][]Result, names, codecs []string, title, suffix string) {
	// Allocate result table.
	cells := make([][]string, 1+len(names))
	for i := range cells {
		cells[i] = make([]string, 1+2*len(codecs))
	}

	// Label the first row.
	cells[0][0] = "benchmark"
	for i, c := range codecs {
		cells[0][1+2*i] = c + " " + title
		cells[0][2+2*i] = "delta"
	}

	for j, row := range results {
		cells[1+j][0] = names[j]
		for i, r := range row {
			if valid(r.R) {
				cells[1+j][1+2*i] = fmt.Sprintf("%.2f", r.R) + suffix
			}
			if valid(r.D) {
				cells[1+j][2+2*i] = fmt.Sprintf("%.2f", r.D) + "x"
			}
		}
	}

	maxLens := make([]int, 1+2*len(codecs))
	for _, row := range cells {
		for i, s := range row {
			if maxLens[i] < len(s) {
				maxLens[i] = len(s)
			}
		}
	}

	for _, row := range cells {
		var line strings.Builder
		line.WriteString("\t")
		for i, s := range row {
			switch {
			case i == 0:
				line.WriteString(s + strings.Repeat(" ", maxLens[i]-len(s)))
			case i%2 == 1: // Value columns
				line.WriteString(strings.Repeat(" ", 6+maxLens[i]-len(s)) + s)
			default: // Delta columns
				line.WriteString(strings.Repeat(" ", 2+maxLens[i]-len(s)) + s)
			}
		}
		fmt.Fprintln(w, line.String())
	}
}

func valid(f float64) bool {
	return f != 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}
