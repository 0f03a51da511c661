// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package fgk

import (
	"fmt"
	"sort"
	"strings"
)

// SortByWeight sorts the codes by descending weight, then by symbol.
func (cs Codes) SortByWeight() {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Weight != cs[j].Weight {
			return cs[i].Weight > cs[j].Weight
		}
		return cs[i].Sym < cs[j].Sym
	})
}

// String renders one code per line with a histogram of the weights.
func (cs Codes) String() string {
	var maxLen uint
	var maxCnt uint32
	for _, c := range cs {
		if maxLen < c.Len {
			maxLen = c.Len
		}
		if maxCnt < c.Weight {
			maxCnt = c.Weight
		}
	}
	maxCntStr := len(fmt.Sprint(maxCnt))

	var ss []string
	ss = append(ss, "{")
	for _, c := range cs {
		code := fmt.Sprintf(fmt.Sprintf("%%0%db", c.Len), c.Val)
		code = strings.Repeat(" ", int(maxLen-c.Len)) + code
		var bar string
		if maxCnt > 0 {
			bar = strings.Repeat("#", int(32*float64(c.Weight)/float64(maxCnt)+0.5))
		}
		ss = append(ss, fmt.Sprintf("\t%3d:  %s,  %*d |%s", c.Sym, code, maxCntStr, c.Weight, bar))
	}
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}

// String renders the tree shape with one node per line, indented by depth.
// Each line holds the edge bit from the parent, the rank, and the weight,
// followed by the symbol for leaves.
func (t *Tree) String() string {
	ss := []string{"{"}
	if len(t.nodes) > 0 {
		ss = t.render(ss, t.root, 0, "")
	}
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}

func (t *Tree) render(ss []string, n int32, depth int, edge string) []string {
	nd := &t.nodes[n]
	s := fmt.Sprintf("\t%s%s%d: %d", strings.Repeat("  ", depth), edge, nd.rank, nd.weight)
	switch {
	case n == t.nyt:
		s += " NYT"
	case nd.child0 == none:
		s += fmt.Sprintf(" sym=%d", nd.sym)
	}
	ss = append(ss, s)
	if nd.child0 != none {
		ss = t.render(ss, nd.child0, depth+1, "0-")
		ss = t.render(ss, nd.child1, depth+1, "1-")
	}
	return ss
}
