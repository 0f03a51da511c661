// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package internal is a collection of helpers shared by the codec packages.
package internal

// MaskUint32 returns the lower n bits of v.
func MaskUint32(v uint32, n uint) uint32 {
	if n >= 32 {
		return v
	}
	return v & (1<<n - 1)
}
