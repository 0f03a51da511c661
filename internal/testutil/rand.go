// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Rand is a deterministic source of test symbols. Unlike math/rand, its
// output is pinned by the xxHash64 algorithm and will not change between
// versions of Go, so generated inputs always compress to the same sizes.
type Rand struct {
	seed uint64
	ctr  uint64
	buf  [16]byte
}

func NewRand(seed int) *Rand {
	return &Rand{seed: uint64(seed)}
}

// next hashes the seed and the block counter.
func (r *Rand) next() uint64 {
	binary.LittleEndian.PutUint64(r.buf[0:], r.seed)
	binary.LittleEndian.PutUint64(r.buf[8:], r.ctr)
	r.ctr++
	return xxhash.Sum64(r.buf[:])
}

// Int returns a non-negative pseudo-random 63-bit integer.
func (r *Rand) Int() int {
	return int(r.next() >> 1)
}

func (r *Rand) Intn(n int) int {
	return r.Int() % n
}

// Bytes returns n uniformly distributed symbols.
func (r *Rand) Bytes(n int) []byte {
	b := make([]byte, n)
	for i := 0; i < n; i += 8 {
		var blk [8]byte
		binary.LittleEndian.PutUint64(blk[:], r.next())
		copy(b[i:], blk[:])
	}
	return b
}

// Skewed returns n symbols drawn from [0, max) where smaller symbols are
// much more likely, so the result has far fewer than 8 bits of entropy per
// symbol.
func (r *Rand) Skewed(n, max int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.Intn(r.Intn(max) + 1))
	}
	return b
}
