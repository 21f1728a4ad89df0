// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package refseq

import (
	"fmt"

	"github.com/antzucaro/matchr"
	"github.com/grailbio/base/errors"
)

// closestID returns the id in ids nearest to id by edit distance, if any is
// within a third of id's length (at least one edit).
func closestID(id string, ids []string) (string, bool) {
	maxDist := len(id) / 3
	if maxDist < 1 {
		maxDist = 1
	}
	best, bestDist := "", maxDist+1
	for _, cand := range ids {
		if d := matchr.Levenshtein(id, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best, bestDist <= maxDist
}

// notFound builds the error for an unknown sequence id. cause may be nil.
func notFound(id string, ids []string, cause error) error {
	msg := fmt.Sprintf("refseq: sequence %q not found", id)
	if cand, ok := closestID(id, ids); ok {
		msg += fmt.Sprintf("; did you mean %q?", cand)
	}
	if cause != nil {
		return errors.E(errors.NotExist, msg, cause)
	}
	return errors.E(errors.NotExist, msg)
}
