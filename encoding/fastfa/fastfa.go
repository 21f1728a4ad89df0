// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package fastfa is a FASTA engine that reads a whole file into memory in one
// pass. It needs no index, and it has no range API: each sequence can only be
// dumped in full. Parsing copies all bases into a single contiguous buffer,
// and the dumped strings alias that buffer, so a parsed Set costs roughly one
// byte per base.
//
// Importing this package registers the engine under engine.Fast.
package fastfa

import (
	"bytes"
	"context"
	"io/ioutil"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/unsafe"
	"github.com/grailbio/refseq/engine"
)

func init() {
	engine.Register(engine.Fast, Parser{})
}

// Parser implements engine.SequenceParser and engine.AnnotationParser.
type Parser struct{}

// ParseFASTA implements engine.SequenceParser.
func (Parser) ParseFASTA(ctx context.Context, path string) (engine.SequenceSet, error) {
	return Parse(ctx, path)
}

// ParseGTF implements engine.AnnotationParser.
func (Parser) ParseGTF(ctx context.Context, path string) ([]engine.Feature, error) {
	return ParseGTF(ctx, path)
}

// Set is a parsed FASTA file.
type Set struct {
	names []string
	seqs  map[string]string
}

type entry string

// Dump implements engine.Entry.
func (e entry) Dump() string { return string(e) }

// Keys implements engine.SequenceSet.
func (s *Set) Keys() []string { return s.names }

// Entry implements engine.SequenceSet.
func (s *Set) Entry(name string) (engine.Entry, bool) {
	seq, ok := s.seqs[name]
	if !ok {
		return nil, false
	}
	return entry(seq), true
}

// Parse reads the FASTA file at path. Local, uncompressed files are memory
// mapped; anything else is read through the file package, and gzip, bzip2 and
// zstd input is decompressed transparently.
func Parse(ctx context.Context, path string) (*Set, error) {
	if scheme, _, err := file.ParsePath(path); err == nil && scheme == "" {
		data, unmap, err := mmapFile(path)
		if err == nil {
			if !isCompressed(data) {
				s, err := parse(data)
				if e := unmap(); e != nil && err == nil {
					err = e
				}
				if err != nil {
					return nil, errors.E(err, "fastfa.Parse", path)
				}
				return s, nil
			}
			if err := unmap(); err != nil {
				return nil, errors.E(err, "fastfa.Parse", path)
			}
		} else if err != errNoMmap {
			log.Debug.Printf("fastfa.Parse %s: mmap failed, reading: %v", path, err)
		}
	}
	data, err := readFile(ctx, path)
	if err != nil {
		return nil, errors.E(err, "fastfa.Parse", path)
	}
	s, err := parse(data)
	if err != nil {
		return nil, errors.E(err, "fastfa.Parse", path)
	}
	return s, nil
}

func readFile(ctx context.Context, path string) (data []byte, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	r, _ := compress.NewReader(in.Reader(ctx))
	defer func() {
		if e := r.Close(); e != nil && err == nil {
			err = e
		}
	}()
	return ioutil.ReadAll(r)
}

// isCompressed checks for gzip, bzip2 and zstd magic numbers.
func isCompressed(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0x1f, 0x8b}) ||
		bytes.HasPrefix(data, []byte("BZh")) ||
		bytes.HasPrefix(data, []byte{0x28, 0xb5, 0x2f, 0xfd})
}

func seqName(header []byte) string {
	fields := strings.Fields(string(header[1:]))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// parse copies the bases in data into one buffer. data may be reused by the
// caller after parse returns.
func parse(data []byte) (*Set, error) {
	type span struct{ start, limit int }
	var (
		entire = make([]byte, 0, len(data))
		names  []string
		spans  = map[string]span{}
		name   string
		inSeq  bool
		start  int
	)
	endSeq := func() {
		if inSeq {
			spans[name] = span{start, len(entire)}
		}
	}
	for len(data) > 0 {
		var line []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			line, data = data, nil
		}
		line = bytes.TrimRight(line, "\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			endSeq()
			name = seqName(line)
			if name == "" {
				return nil, errors.E(errors.Invalid, "malformed FASTA file: empty sequence name")
			}
			if _, ok := spans[name]; ok {
				return nil, errors.E(errors.Invalid, "malformed FASTA file: duplicate sequence name", name)
			}
			spans[name] = span{}
			names = append(names, name)
			inSeq = true
			start = len(entire)
			continue
		}
		if !inSeq {
			return nil, errors.E(errors.Invalid, "malformed FASTA file: sequence data before the first header")
		}
		entire = append(entire, line...)
	}
	endSeq()
	if len(names) == 0 {
		return nil, errors.E(errors.Invalid, "empty FASTA file")
	}
	s := &Set{names: names, seqs: make(map[string]string, len(names))}
	for _, n := range names {
		sp := spans[n]
		s.seqs[n] = unsafe.BytesToString(entire[sp.start:sp.limit])
	}
	return s, nil
}
