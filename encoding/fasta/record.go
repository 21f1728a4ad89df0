// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"github.com/grailbio/base/errors"
)

// Record is a view of one sequence in an indexed FASTA file. Bases are read
// from the file on each call; nothing is cached.
type Record struct {
	fa     Fasta
	name   string
	length uint64
}

// Name returns the sequence name.
func (r *Record) Name() string { return r.name }

// Len returns the number of bases in the sequence.
func (r *Record) Len() int { return int(r.length) }

// Slice returns bases [start, end). Bounds beyond the sequence are clamped to
// its length, and an empty range yields "", the same as slicing a Go string
// would after clamping. Negative bounds are an error.
func (r *Record) Slice(start, end int) (string, error) {
	if start < 0 || end < 0 {
		return "", errors.E(errors.Invalid, "fasta: negative bound for", r.name)
	}
	if end > int(r.length) {
		end = int(r.length)
	}
	if start >= end {
		return "", nil
	}
	return r.fa.Get(r.name, uint64(start), uint64(end))
}

// String returns the whole sequence. Read errors yield "".
func (r *Record) String() string {
	s, err := r.Slice(0, int(r.length))
	if err != nil {
		return ""
	}
	return s
}
