// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package engine is a registry for optional sequence parsing engines.
//
// An engine becomes available to a program by being linked into it: the
// engine's package calls Register from an init function, and the program
// imports that package for its side effects, e.g.
//
//   import _ "github.com/grailbio/refseq/encoding/fastfa"
//
// Callers discover engines with Lookup and check which entry points they
// provide with type assertions against SequenceParser and AnnotationParser.
package engine

import (
	"context"
	"sync"
)

// Fast is the registry name of the whole-file FASTA engine.
const Fast = "fast"

// SequenceParser parses a whole FASTA file in one call.
type SequenceParser interface {
	ParseFASTA(ctx context.Context, path string) (SequenceSet, error)
}

// AnnotationParser parses a whole GTF file in one call.
type AnnotationParser interface {
	ParseGTF(ctx context.Context, path string) ([]Feature, error)
}

// SequenceSet is the result of SequenceParser.ParseFASTA. It has no notion of
// an index or of ranges: sequences are only available whole.
type SequenceSet interface {
	// Keys returns the sequence names, in file order.
	Keys() []string
	// Entry returns the named sequence.
	Entry(name string) (Entry, bool)
}

// Entry is one parsed sequence.
type Entry interface {
	// Dump returns all bases of the sequence.
	Dump() string
}

// Feature is one GTF line. Start and End are 1-based and closed, as in the
// file.
type Feature struct {
	Seqname    string
	Source     string
	Feature    string
	Start      int
	End        int
	Score      string
	Strand     string
	Frame      string
	Attributes map[string]string
}

var (
	mu      sync.Mutex
	engines = map[string]interface{}{}
)

// Register makes an engine available under the given name. It panics if the
// name is registered twice.
func Register(name string, impl interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if impl == nil {
		panic("engine.Register: nil engine " + name)
	}
	if _, ok := engines[name]; ok {
		panic("engine.Register: duplicate engine " + name)
	}
	engines[name] = impl
}

// Lookup returns the engine registered under name.
func Lookup(name string) (interface{}, bool) {
	mu.Lock()
	defer mu.Unlock()
	impl, ok := engines[name]
	return impl, ok
}

// Unregister removes an engine. It exists for tests.
func Unregister(name string) {
	mu.Lock()
	delete(engines, name)
	mu.Unlock()
}
