// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package refseq

import (
	"reflect"
	"sync"

	"github.com/grailbio/refseq/engine"
)

// Capability describes whether the fast engine can be used.
type Capability struct {
	// Available is true if an engine is registered under engine.Fast.
	Available bool
	// Working is true if the registered engine provides both the FASTA and the
	// GTF entry points.
	Working bool
	// Parser is the engine's FASTA entry point. It is set iff Working.
	Parser engine.SequenceParser
}

// OK reports whether the fast engine is available and working.
func (c Capability) OK() bool {
	return c.Available && c.Working && c.Parser != nil
}

type prober struct {
	once   sync.Once
	lookup func() (interface{}, bool)
	result Capability
}

func (p *prober) probe() Capability {
	p.once.Do(func() {
		impl, ok := p.lookup()
		if !ok {
			return
		}
		p.result.Available = true
		p.result.Parser, p.result.Working = checkEntryPoints(impl)
	})
	return p.result
}

var fastProber = &prober{lookup: func() (interface{}, bool) { return engine.Lookup(engine.Fast) }}

// ProbeFast reports whether the fast engine is linked into this binary and
// provides the expected entry points. The entry points are checked for
// presence only; nothing is parsed. The check runs once per process and the
// result never changes afterwards.
func ProbeFast() Capability {
	return fastProber.probe()
}

// IsFastAvailable is shorthand for ProbeFast().OK().
func IsFastAvailable() bool {
	return ProbeFast().OK()
}

// checkEntryPoints returns the FASTA entry point of impl, and whether impl has
// both entry points. A nil pointer registered as an engine is not working,
// and neither is one whose inspection panics.
func checkEntryPoints(impl interface{}) (parser engine.SequenceParser, working bool) {
	defer func() {
		if r := recover(); r != nil {
			parser, working = nil, false
		}
	}()
	if impl == nil {
		return nil, false
	}
	if v := reflect.ValueOf(impl); v.Kind() == reflect.Ptr && v.IsNil() {
		return nil, false
	}
	parser, ok := impl.(engine.SequenceParser)
	if !ok {
		return nil, false
	}
	if _, ok := impl.(engine.AnnotationParser); !ok {
		return nil, false
	}
	return parser, true
}
