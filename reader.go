// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package refseq

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Backend identifies the engine behind a Reader.
type Backend int

const (
	// Indexed reads bases from disk on demand through a *.fai index.
	Indexed Backend = iota
	// Fast holds the whole file in memory.
	Fast
)

func (b Backend) String() string {
	switch b {
	case Indexed:
		return "indexed"
	case Fast:
		return "fast"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// Reader provides access to the sequences of one FASTA file. A Reader is
// created empty and must be loaded exactly once with Load before any other
// method is used. Once loaded, the set of ids, their lengths and their bases
// never change.
//
// Readers are not safe for concurrent use unless documented otherwise by the
// implementation.
type Reader interface {
	// Backend reports which engine serves the reader.
	Backend() Backend

	// Load opens the FASTA file at path. indexPath optionally names a *.fai
	// index; backends without an index ignore it. Load fails if the reader has
	// already been loaded.
	Load(path, indexPath string) error

	// GetSequence returns the bases of sequence id covered by iv.
	GetSequence(id string, iv Interval) (string, error)

	// GetChromosomeRecord returns a per-sequence view of id.
	GetChromosomeRecord(id string) (Record, error)

	// Lookup is shorthand for GetChromosomeRecord.
	Lookup(id string) (Record, error)

	// GetChromosomeIDs returns a copy of the sequence ids, in file order.
	GetChromosomeIDs() []string

	// Keys returns the sequence ids, in file order. The caller must not modify
	// the result.
	Keys() []string

	// GetChromosomeLength returns the number of bases in sequence id.
	GetChromosomeLength(id string) (int, error)

	// Close releases resources held by the reader. It is safe to call Close
	// more than once.
	Close() error
}

// Record is a view of a single sequence, as returned by
// Reader.GetChromosomeRecord.
type Record interface {
	// Slice returns bases [start, end), clamped to the sequence.
	Slice(start, end int) (string, error)
	// Len returns the sequence length.
	Len() int
	// String returns the whole sequence.
	String() string
}

var (
	errNotLoaded     = errors.E(errors.Precondition, "refseq: reader is not loaded")
	errAlreadyLoaded = errors.E(errors.Precondition, "refseq: reader is already loaded")
	errClosed        = errors.E(errors.Precondition, "refseq: reader is closed")
)

func copyIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	return append([]string(nil), ids...)
}
