// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package fgk

// symBlock is the number of entries the symbol table grows by.
const symBlock = 4

type symbolEntry struct {
	sym  byte
	leaf int32
}

// symbolTable maps the symbols seen so far to their leaves.
// Entries are kept in order of first appearance and are never removed.
type symbolTable struct {
	ents []symbolEntry
}

func (st *symbolTable) reset() {
	st.ents = st.ents[:0]
}

func (st *symbolTable) lookup(sym byte) (int32, bool) {
	for _, e := range st.ents {
		if e.sym == sym {
			return e.leaf, true
		}
	}
	return none, false
}

func (st *symbolTable) insert(sym byte, leaf int32) {
	if len(st.ents) == cap(st.ents) {
		ents := make([]symbolEntry, len(st.ents), cap(st.ents)+symBlock)
		copy(ents, st.ents)
		st.ents = ents
	}
	st.ents = append(st.ents, symbolEntry{sym, leaf})
}

func (st *symbolTable) len() int { return len(st.ents) }
