package refseq

import (
	"context"
	"testing"

	"github.com/grailbio/refseq/engine"
	"github.com/grailbio/testutil/expect"
)

type fastaOnly struct{}

func (*fastaOnly) ParseFASTA(ctx context.Context, path string) (engine.SequenceSet, error) {
	return nil, nil
}

type fullEngine struct{ fastaOnly }

func (*fullEngine) ParseGTF(ctx context.Context, path string) ([]engine.Feature, error) {
	return nil, nil
}

func TestProbeOnce(t *testing.T) {
	calls := 0
	p := &prober{lookup: func() (interface{}, bool) {
		calls++
		return &fullEngine{}, true
	}}
	for i := 0; i < 3; i++ {
		c := p.probe()
		expect.True(t, c.OK())
	}
	expect.EQ(t, calls, 1)
}

func TestProbeOutcomes(t *testing.T) {
	var nilEngine *fullEngine
	tests := []struct {
		impl               interface{}
		registered         bool
		available, working bool
	}{
		{nil, false, false, false},
		{&fullEngine{}, true, true, true},
		{&fastaOnly{}, true, true, false},
		{"not an engine", true, true, false},
		{nilEngine, true, true, false},
		{nil, true, true, false},
	}
	for i, test := range tests {
		impl, registered := test.impl, test.registered
		p := &prober{lookup: func() (interface{}, bool) { return impl, registered }}
		c := p.probe()
		expect.EQ(t, c.Available, test.available, i)
		expect.EQ(t, c.Working, test.working, i)
		expect.EQ(t, c.OK(), test.available && test.working, i)
		expect.EQ(t, c.Parser != nil, test.working, i)
	}
}
