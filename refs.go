// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package refseq

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
)

// ToStringSlice returns the bases of every reference in headerRefs, in header
// order, so that the result can be indexed by sam.Reference.ID(). References
// missing from r are left empty and counted in a warning. A length mismatch
// between the header and r is an error.
func ToStringSlice(r Reader, headerRefs []*sam.Reference) ([]string, error) {
	refSeqs := make([]string, len(headerRefs))
	nMissingFromFa := 0
	for i, ref := range headerRefs {
		n, err := r.GetChromosomeLength(ref.Name())
		if err != nil {
			if errors.Is(errors.NotExist, err) {
				nMissingFromFa++
				continue
			}
			return nil, err
		}
		if n != ref.Len() {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("refseq.ToStringSlice: inconsistent lengths for contig %s (%d in BAM header, %d in .fa)", ref.Name(), ref.Len(), n))
		}
		if refSeqs[i], err = r.GetSequence(ref.Name(), All()); err != nil {
			return nil, err
		}
	}
	if nMissingFromFa != 0 {
		log.Printf("refseq.ToStringSlice: warning: %d reference(s) present in BAM header but missing from .fa", nMissingFromFa)
	}
	if nMissingFromXam := len(r.Keys()) + nMissingFromFa - len(headerRefs); nMissingFromXam != 0 {
		log.Printf("refseq.ToStringSlice: warning: %d reference(s) present in .fa but missing from BAM header", nMissingFromXam)
	}
	return refSeqs, nil
}

// CheckReferences verifies that every reference in headerRefs is present in r
// with the same length.
func CheckReferences(r Reader, headerRefs []*sam.Reference) error {
	for _, ref := range headerRefs {
		n, err := r.GetChromosomeLength(ref.Name())
		if err != nil {
			return err
		}
		if n != ref.Len() {
			return errors.E(errors.Invalid, fmt.Sprintf("refseq.CheckReferences: %s has length %d in header, %d in .fa", ref.Name(), ref.Len(), n))
		}
	}
	return nil
}
