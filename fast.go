// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package refseq

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/refseq/engine"
)

// FastReader is a Reader backed by a whole-file engine such as
// encoding/fastfa. Load parses the file once and caches every sequence; after
// that, lookups are plain string slicing. Once loaded, a FastReader is safe
// for concurrent use since nothing is written after Load.
type FastReader struct {
	parser engine.SequenceParser
	set    engine.SequenceSet
	ids    []string
	cache  map[string]string
	closed bool
}

// NewFastReader returns an unloaded FastReader that parses with the given
// engine.
func NewFastReader(parser engine.SequenceParser) *FastReader {
	return &FastReader{parser: parser}
}

// Backend implements Reader.
func (r *FastReader) Backend() Backend { return Fast }

// Load implements Reader. indexPath is ignored: the engine has no index.
// Parse errors are logged and returned; the reader does not fall back to
// another engine.
func (r *FastReader) Load(path, indexPath string) error {
	if r.closed {
		return errClosed
	}
	if r.set != nil {
		return errAlreadyLoaded
	}
	if indexPath != "" {
		log.Debug.Printf("refseq: fast backend has no index, ignoring %s", indexPath)
	}
	set, err := r.parser.ParseFASTA(vcontext.Background(), path)
	if err != nil {
		log.Printf("refseq: warning: fast FASTA parsing failed: %s", oneLine(err))
		return err
	}
	if set == nil {
		return errors.E(errors.Integrity, fmt.Sprintf("refseq: %s: engine returned no sequences", path))
	}
	ids := set.Keys()
	cache := make(map[string]string, len(ids))
	for _, id := range ids {
		e, ok := set.Entry(id)
		if !ok {
			return errors.E(errors.Integrity, fmt.Sprintf("refseq: %s: sequence %q listed but not parsed", path, id))
		}
		cache[id] = e.Dump()
	}
	r.set, r.ids, r.cache = set, ids, cache
	return nil
}

// sequence returns the cached bases of id. Every id is cached by Load, so a
// miss for an id the engine knows means the cache is inconsistent.
func (r *FastReader) sequence(id string) (string, error) {
	switch {
	case r.closed:
		return "", errClosed
	case r.set == nil:
		return "", errNotLoaded
	}
	if seq, ok := r.cache[id]; ok {
		return seq, nil
	}
	if _, ok := r.set.Entry(id); ok {
		return "", errors.E(errors.Integrity, fmt.Sprintf("refseq: sequence %q missing from cache", id))
	}
	return "", notFound(id, r.ids, nil)
}

// GetSequence implements Reader.
func (r *FastReader) GetSequence(id string, iv Interval) (string, error) {
	seq, err := r.sequence(id)
	if err != nil {
		return "", err
	}
	start, end, err := iv.Resolve(len(seq))
	if err != nil {
		return "", err
	}
	return seq[start:end], nil
}

// GetChromosomeRecord implements Reader. The engine has no per-sequence
// object with slicing, so the result is a *RegionView over r.
func (r *FastReader) GetChromosomeRecord(id string) (Record, error) {
	if _, err := r.sequence(id); err != nil {
		return nil, err
	}
	return NewRegionView(r, id), nil
}

// Lookup implements Reader.
func (r *FastReader) Lookup(id string) (Record, error) { return r.GetChromosomeRecord(id) }

// GetChromosomeIDs implements Reader.
func (r *FastReader) GetChromosomeIDs() []string { return copyIDs(r.ids) }

// Keys implements Reader.
func (r *FastReader) Keys() []string { return r.ids }

// GetChromosomeLength implements Reader. The length is that of the cached
// sequence.
func (r *FastReader) GetChromosomeLength(id string) (int, error) {
	seq, err := r.sequence(id)
	if err != nil {
		return 0, err
	}
	return len(seq), nil
}

// Close implements Reader. The cache is dropped; later reads fail.
func (r *FastReader) Close() error {
	r.closed = true
	r.set, r.ids, r.cache = nil, nil, nil
	return nil
}

// oneLine flattens a wrapped error onto a single line.
func oneLine(err error) string {
	return strings.Replace(strings.Replace(err.Error(), errors.Separator, ": ", -1), "\n", " ", -1)
}
