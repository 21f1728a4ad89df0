// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package refseq

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// RegionView is a Record over one sequence of a Reader. It holds no bases
// itself; every call goes through the Reader, so it must not outlive it.
type RegionView struct {
	r  Reader
	id string
}

// NewRegionView returns a view of sequence id of r.
func NewRegionView(r Reader, id string) *RegionView {
	return &RegionView{r: r, id: id}
}

// ID returns the sequence id.
func (v *RegionView) ID() string { return v.id }

// Index returns part of the sequence. key is either an Interval, which yields
// the bases in that interval, or an int, which yields the single base at that
// offset. Any other key type is an errors.Invalid error.
func (v *RegionView) Index(key interface{}) (string, error) {
	switch k := key.(type) {
	case Interval:
		return v.r.GetSequence(v.id, k)
	case int:
		seq, err := v.r.GetSequence(v.id, All())
		if err != nil {
			return "", err
		}
		if k < 0 || k >= len(seq) {
			return "", errors.E(errors.Invalid, fmt.Sprintf("refseq: index %d out of range for %s of length %d", k, v.id, len(seq)))
		}
		return seq[k : k+1], nil
	default:
		return "", errors.E(errors.Invalid, fmt.Sprintf("refseq: indices must be integers or intervals, not %T", key))
	}
}

// Slice implements Record.
func (v *RegionView) Slice(start, end int) (string, error) {
	return v.r.GetSequence(v.id, Span(start, end))
}

// Len implements Record. It returns 0 if the sequence is unknown.
func (v *RegionView) Len() int {
	n, err := v.r.GetChromosomeLength(v.id)
	if err != nil {
		return 0
	}
	return n
}

// String implements Record. It returns "" if the sequence is unknown.
func (v *RegionView) String() string {
	seq, err := v.r.GetSequence(v.id, All())
	if err != nil {
		return ""
	}
	return seq
}
