// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package refseq

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Interval is a 0-based, half-open range [Start, End) within a sequence.
// Either side may be left open: an open start means 0 and an open end means
// the sequence length.
type Interval struct {
	Start, End       int
	HasStart, HasEnd bool
}

// All is the whole sequence.
func All() Interval { return Interval{} }

// From is [start, length).
func From(start int) Interval { return Interval{Start: start, HasStart: true} }

// To is [0, end).
func To(end int) Interval { return Interval{End: end, HasEnd: true} }

// Span is [start, end).
func Span(start, end int) Interval {
	return Interval{Start: start, End: end, HasStart: true, HasEnd: true}
}

// Resolve computes the concrete range within a sequence of length n. Bounds
// are clamped to [0, n] and an inverted range becomes empty, so the result is
// always safe to slice with. Negative bounds are rejected.
func (iv Interval) Resolve(n int) (start, end int, err error) {
	if (iv.HasStart && iv.Start < 0) || (iv.HasEnd && iv.End < 0) {
		return 0, 0, errors.E(errors.Invalid, "refseq: negative bound in interval", iv.String())
	}
	start, end = 0, n
	if iv.HasStart {
		start = iv.Start
	}
	if iv.HasEnd {
		end = iv.End
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end, nil
}

// String renders the interval in slice notation, e.g. "10:20" or "10:".
func (iv Interval) String() string {
	var s, e string
	if iv.HasStart {
		s = fmt.Sprint(iv.Start)
	}
	if iv.HasEnd {
		e = fmt.Sprint(iv.End)
	}
	return s + ":" + e
}
