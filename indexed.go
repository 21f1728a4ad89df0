// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package refseq

import (
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/refseq/encoding/fasta"
)

// IndexedReader is a Reader backed by the indexed engine. Bases are read from
// the file on every call, so memory use does not depend on the reference size.
// Thread compatible.
type IndexedReader struct {
	f      *fasta.File
	closed bool
}

// NewIndexedReader returns an unloaded IndexedReader.
func NewIndexedReader() *IndexedReader { return &IndexedReader{} }

// Backend implements Reader.
func (r *IndexedReader) Backend() Backend { return Indexed }

// Load implements Reader. If indexPath is empty, path+".fai" is used, and it
// is generated if missing. Errors from the engine are returned unchanged.
func (r *IndexedReader) Load(path, indexPath string) error {
	if r.closed {
		return errClosed
	}
	if r.f != nil {
		return errAlreadyLoaded
	}
	f, err := fasta.Open(vcontext.Background(), path, indexPath)
	if err != nil {
		return err
	}
	r.f = f
	return nil
}

func (r *IndexedReader) file() (*fasta.File, error) {
	switch {
	case r.closed:
		return nil, errClosed
	case r.f == nil:
		return nil, errNotLoaded
	}
	return r.f, nil
}

func (r *IndexedReader) record(id string) (*fasta.Record, error) {
	f, err := r.file()
	if err != nil {
		return nil, err
	}
	rec, err := f.Record(id)
	if err != nil {
		return nil, notFound(id, f.SeqNames(), err)
	}
	return rec, nil
}

// GetSequence implements Reader. The interval is resolved against the indexed
// length and the read is delegated to the engine.
func (r *IndexedReader) GetSequence(id string, iv Interval) (string, error) {
	rec, err := r.record(id)
	if err != nil {
		return "", err
	}
	start, end, err := iv.Resolve(rec.Len())
	if err != nil {
		return "", err
	}
	return rec.Slice(start, end)
}

// GetChromosomeRecord implements Reader. The result is the engine's own
// *fasta.Record. Callers may type-assert to reach engine-specific methods, at
// the cost of working only with this backend.
func (r *IndexedReader) GetChromosomeRecord(id string) (Record, error) {
	rec, err := r.record(id)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Lookup implements Reader.
func (r *IndexedReader) Lookup(id string) (Record, error) { return r.GetChromosomeRecord(id) }

// GetChromosomeIDs implements Reader.
func (r *IndexedReader) GetChromosomeIDs() []string { return copyIDs(r.Keys()) }

// Keys implements Reader.
func (r *IndexedReader) Keys() []string {
	f, err := r.file()
	if err != nil {
		return nil
	}
	return f.SeqNames()
}

// GetChromosomeLength implements Reader.
func (r *IndexedReader) GetChromosomeLength(id string) (int, error) {
	rec, err := r.record(id)
	if err != nil {
		return 0, err
	}
	return rec.Len(), nil
}

// Close implements Reader. It closes the FASTA file.
func (r *IndexedReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.f == nil {
		return nil
	}
	return r.f.Close(vcontext.Background())
}
