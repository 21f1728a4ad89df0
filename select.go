// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package refseq

import (
	"github.com/grailbio/base/log"
)

// Selector picks the engine for new Readers. The zero value is ready to use.
type Selector struct {
	// Probe reports the state of the fast engine. If nil, ProbeFast is used.
	Probe func() Capability
}

func (s Selector) probe() Capability {
	if s.Probe != nil {
		return s.Probe()
	}
	return ProbeFast()
}

// Select returns an unloaded Reader. If preferFast is false, the result is
// always an IndexedReader. Otherwise it is a FastReader when the fast engine is
// usable, and an IndexedReader if not; in the latter case one warning is
// logged saying whether the engine is missing or broken.
func (s Selector) Select(preferFast bool) Reader {
	if !preferFast {
		return NewIndexedReader()
	}
	c := s.probe()
	switch {
	case c.OK():
		log.Printf("refseq: using fast FASTA backend")
		return NewFastReader(c.Parser)
	case c.Available:
		log.Printf("refseq: warning: fast FASTA backend is installed but not working correctly on this platform, falling back to indexed reader")
	default:
		log.Printf("refseq: warning: fast FASTA backend requested but not installed, falling back to indexed reader")
	}
	return NewIndexedReader()
}

// SelectAndLoad selects a Reader and loads path into it. If loading fails the
// error is returned as is; no other engine is tried.
func (s Selector) SelectAndLoad(path, indexPath string, preferFast bool) (Reader, error) {
	r := s.Select(preferFast)
	if err := r.Load(path, indexPath); err != nil {
		return nil, err
	}
	return r, nil
}

// NewReader is Selector{}.Select.
func NewReader(preferFast bool) Reader {
	return Selector{}.Select(preferFast)
}

// Open is Selector{}.SelectAndLoad.
func Open(path, indexPath string, preferFast bool) (Reader, error) {
	return Selector{}.SelectAndLoad(path, indexPath, preferFast)
}
