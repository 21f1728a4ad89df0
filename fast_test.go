package refseq

import (
	"context"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/refseq/engine"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

type seqEntry string

func (e seqEntry) Dump() string { return string(e) }

// fakeSet lists keys but only has entries for those in seqs.
type fakeSet struct {
	keys []string
	seqs map[string]string
}

func (s fakeSet) Keys() []string { return s.keys }

func (s fakeSet) Entry(name string) (engine.Entry, bool) {
	seq, ok := s.seqs[name]
	return seqEntry(seq), ok
}

type fakeParser struct {
	set   engine.SequenceSet
	err   error
	calls int
}

func (p *fakeParser) ParseFASTA(ctx context.Context, path string) (engine.SequenceSet, error) {
	p.calls++
	return p.set, p.err
}

func TestFastReaderParsesOnce(t *testing.T) {
	p := &fakeParser{set: fakeSet{
		keys: []string{"a", "b"},
		seqs: map[string]string{"a": "ACGT", "b": "GG"},
	}}
	r := NewFastReader(p)
	assert.NoError(t, r.Load("x.fa", "x.fa.fai"))
	for i := 0; i < 3; i++ {
		s, err := r.GetSequence("a", From(1))
		assert.NoError(t, err)
		expect.EQ(t, s, "CGT")
	}
	n, err := r.GetChromosomeLength("b")
	assert.NoError(t, err)
	expect.EQ(t, n, 2)
	expect.EQ(t, p.calls, 1)
}

func TestFastReaderIncompleteSet(t *testing.T) {
	p := &fakeParser{set: fakeSet{
		keys: []string{"a", "b"},
		seqs: map[string]string{"a": "ACGT"},
	}}
	r := NewFastReader(p)
	err := r.Load("x.fa", "")
	expect.True(t, errors.Is(errors.Integrity, err))
	// Nothing is kept from a failed load.
	expect.EQ(t, len(r.Keys()), 0)
	_, err = r.GetSequence("a", All())
	expect.True(t, errors.Is(errors.Precondition, err))
}

func TestFastReaderCacheMiss(t *testing.T) {
	p := &fakeParser{set: fakeSet{
		keys: []string{"a"},
		seqs: map[string]string{"a": "ACGT"},
	}}
	r := NewFastReader(p)
	assert.NoError(t, r.Load("x.fa", ""))
	delete(r.cache, "a")
	_, err := r.GetSequence("a", All())
	expect.True(t, errors.Is(errors.Integrity, err))
	_, err = r.GetSequence("z", All())
	expect.True(t, errors.Is(errors.NotExist, err))
}

func TestFastReaderNoSet(t *testing.T) {
	r := NewFastReader(&fakeParser{})
	err := r.Load("x.fa", "")
	expect.True(t, errors.Is(errors.Integrity, err))
	expect.EQ(t, len(r.Keys()), 0)
}

func TestFastReaderClose(t *testing.T) {
	p := &fakeParser{set: fakeSet{
		keys: []string{"a"},
		seqs: map[string]string{"a": "ACGT"},
	}}
	r := NewFastReader(p)
	assert.NoError(t, r.Load("x.fa", ""))
	rec, err := r.GetChromosomeRecord("a")
	assert.NoError(t, err)
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())

	_, err = r.GetSequence("a", All())
	expect.True(t, errors.Is(errors.Precondition, err))
	_, err = r.GetChromosomeLength("a")
	expect.True(t, errors.Is(errors.Precondition, err))
	_, err = rec.Slice(0, 2)
	expect.True(t, errors.Is(errors.Precondition, err))
	expect.EQ(t, len(r.Keys()), 0)
	expect.True(t, errors.Is(errors.Precondition, r.Load("x.fa", "")))
	expect.EQ(t, p.calls, 1)
}

func TestOneLine(t *testing.T) {
	err := errors.E(errors.NotExist, "open x.fa", errors.E("no such file\nor directory"))
	expect.True(t, strings.Contains(err.Error(), "\n"))
	got := oneLine(err)
	expect.False(t, strings.Contains(got, "\n"))
	expect.HasSubstr(t, got, "open x.fa")
	expect.HasSubstr(t, got, "no such file or directory")
}

func TestClosestID(t *testing.T) {
	ids := []string{"chr1", "chr2", "chrX", "chrM"}
	got, ok := closestID("chrXX", ids)
	expect.True(t, ok)
	expect.EQ(t, got, "chrX")
	_, ok = closestID("scaffold_17", ids)
	expect.False(t, ok)
	_, ok = closestID("chr1", nil)
	expect.False(t, ok)
}
