// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package fasta contains code for random access to indexed FASTA files.
// See http://www.htslib.org/doc/faidx.html.  Briefly, FASTA files consist of a
// number of named sequences that may be interrupted by newlines.  For example:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// Note: Sequence names are defined to be the stretch of non-whitespace
// characters immediately after '>'.  Any text appearing after a space or tab is
// ignored.  For example, '>chr1 A viral sequence' becomes 'chr1'.
//
// The index (*.fai) records, for each sequence, where its bases start in the
// file and how they are wrapped, so a range can be read with a single seek.
package fasta

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Fasta represents FASTA-formatted data, consisting of a set of named
// sequences.
type Fasta interface {
	// Get returns a substring of the given sequence name at the given
	// coordinates, which are treated as a 0-based half-open interval
	// [start, end). Get is thread-safe.
	Get(seqName string, start, end uint64) (string, error)

	// Len returns the length of the given sequence.
	Len(seqName string) (uint64, error)

	// SeqNames returns the names of all sequences, in the order of appearance in
	// the FASTA file.
	SeqNames() []string
}

// SeqName extracts the sequence name from a header line. The leading '>' is
// optional.
func SeqName(header string) string {
	fields := strings.Fields(strings.TrimPrefix(header, ">"))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// minReadSize is the smallest chunk read from the FASTA file at once. Nearby
// Gets are served from the same chunk.
const minReadSize = 8192

type indexedFasta struct {
	entries map[string]IndexEntry
	names   []string // in file order

	mu        sync.Mutex
	r         io.ReadSeeker
	window    []byte // file contents starting at windowOff
	windowOff int64
	out       []byte
}

// NewIndexed creates a new Fasta that can perform efficient random lookups
// using the provided index, without reading the data into memory.
func NewIndexed(fasta io.ReadSeeker, index io.Reader) (Fasta, error) {
	entries, err := ReadIndex(index)
	if err != nil {
		return nil, err
	}
	f := &indexedFasta{entries: make(map[string]IndexEntry, len(entries)), r: fasta}
	for _, e := range entries {
		if _, ok := f.entries[e.Name]; ok {
			return nil, errors.Errorf("duplicate sequence name in index: %s", e.Name)
		}
		f.entries[e.Name] = e
		f.names = append(f.names, e.Name)
	}
	sort.SliceStable(f.names, func(i, j int) bool {
		return f.entries[f.names[i]].Offset < f.entries[f.names[j]].Offset
	})
	return f, nil
}

// Len implements Fasta.Len().
func (f *indexedFasta) Len(seqName string) (uint64, error) {
	e, ok := f.entries[seqName]
	if !ok {
		return 0, fmt.Errorf("sequence not found in index: %s", seqName)
	}
	return e.Length, nil
}

// SeqNames implements Fasta.SeqNames().
func (f *indexedFasta) SeqNames() []string {
	return f.names
}

// readAt returns bytes [off, off+n) of the file. The result is valid until the
// next call. REQUIRES: f.mu is held.
func (f *indexedFasta) readAt(off int64, n int) ([]byte, error) {
	if off >= f.windowOff && off+int64(n) <= f.windowOff+int64(len(f.window)) {
		return f.window[off-f.windowOff : off-f.windowOff+int64(n)], nil
	}
	if got, err := f.r.Seek(off, io.SeekStart); err != nil || got != off {
		return nil, fmt.Errorf("failed to seek to offset %d: %d, %v", off, got, err)
	}
	size := minReadSize
	if size < n {
		size = n
	}
	if cap(f.window) < size {
		f.window = make([]byte, size)
	}
	f.window = f.window[:size]
	nRead, err := io.ReadAtLeast(f.r, f.window, n)
	if nRead < n {
		f.window = f.window[:0]
		return nil, fmt.Errorf("encountered unexpected end of file (bad index? file doesn't end in newline?)")
	}
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		f.window = f.window[:0]
		return nil, err
	}
	f.window, f.windowOff = f.window[:nRead], off
	return f.window[:n], nil
}

// Get implements Fasta.Get().
func (f *indexedFasta) Get(seqName string, start uint64, end uint64) (string, error) {
	if end <= start {
		return "", fmt.Errorf("start must be less than end")
	}
	e, ok := f.entries[seqName]
	if !ok {
		return "", fmt.Errorf("sequence not found in index: %s", seqName)
	}
	if end > e.Length {
		return "", fmt.Errorf("end is past end of sequence %s: %d", seqName, e.Length)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	// Read from the first base to the last one, inclusive. The line
	// terminators in between are dropped below; the one after the last base
	// is never read, since the file may end without it.
	first, last := e.fileOffset(start), e.fileOffset(end-1)
	raw, err := f.readAt(int64(first), int(last-first+1))
	if err != nil {
		return "", err
	}
	if cap(f.out) < int(end-start) {
		f.out = make([]byte, 0, end-start)
	}
	out := f.out[:0]
	col := (first - e.Offset) % e.LineWidth
	for _, b := range raw {
		if col < e.LineBases {
			out = append(out, b)
		}
		if col++; col == e.LineWidth {
			col = 0
		}
	}
	return string(out), nil
}
