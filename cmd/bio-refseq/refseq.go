// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/refseq"
	"github.com/grailbio/refseq/encoding/fasta"
	"github.com/klauspost/compress/gzip"
)

// Bases per line in FASTA output, as samtools faidx.
const lineWidth = 60

func open(path string, flags readerFlags) (refseq.Reader, error) {
	return refseq.Open(path, *flags.index, *flags.fast)
}

func ids(w io.Writer, path string, flags readerFlags) (err error) {
	r, err := open(path, flags)
	if err != nil {
		return err
	}
	defer func() {
		if e := r.Close(); e != nil && err == nil {
			err = e
		}
	}()
	return writeIDs(w, r)
}

// writeIDs writes one "name\tlength" line per sequence.
func writeIDs(w io.Writer, r refseq.Reader) error {
	out := tsv.NewWriter(w)
	for _, id := range r.Keys() {
		n, err := r.GetChromosomeLength(id)
		if err != nil {
			return err
		}
		out.WriteString(id)
		out.WriteInt64(int64(n))
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}

// region is a parsed "chr:begin-end" argument.
type region struct {
	name string // as given on the command line
	id   string
	iv   refseq.Interval
}

var regionRE = regexp.MustCompile(`^(.+):([0-9,]+)(-([0-9,]*))?$`)

func parsePos(s string) (int, error) {
	return strconv.Atoi(strings.Replace(s, ",", "", -1))
}

// parseRegion parses a samtools-style region. known reports whether a string
// is a sequence id; a region that is itself an id is never split, so ids
// containing ':' still work.
func parseRegion(s string, known func(string) bool) (region, error) {
	if known(s) {
		return region{name: s, id: s, iv: refseq.All()}, nil
	}
	m := regionRE.FindStringSubmatch(s)
	if m == nil {
		return region{name: s, id: s, iv: refseq.All()}, nil
	}
	begin, err := parsePos(m[2])
	if err != nil {
		return region{}, errors.E(errors.Invalid, "bad region", s, err)
	}
	if begin < 1 {
		return region{}, errors.E(errors.Invalid, fmt.Sprintf("bad region %s: positions are 1-based", s))
	}
	r := region{name: s, id: m[1], iv: refseq.From(begin - 1)}
	if m[4] != "" {
		end, err := parsePos(m[4])
		if err != nil {
			return region{}, errors.E(errors.Invalid, "bad region", s, err)
		}
		if end < begin {
			return region{}, errors.E(errors.Invalid, fmt.Sprintf("bad region %s: end is before begin", s))
		}
		r.iv = refseq.Span(begin-1, end)
	}
	return r, nil
}

func get(stdout io.Writer, path string, args []string, bedPath, outPath string, flags readerFlags) (err error) {
	r, err := open(path, flags)
	if err != nil {
		return err
	}
	defer func() {
		if e := r.Close(); e != nil && err == nil {
			err = e
		}
	}()
	known := func(id string) bool {
		_, err := r.GetChromosomeLength(id)
		return err == nil
	}
	regions := make([]region, len(args))
	for i, arg := range args {
		if regions[i], err = parseRegion(arg, known); err != nil {
			return err
		}
	}
	if bedPath != "" {
		bedRegions, err := readBED(bedPath)
		if err != nil {
			return err
		}
		regions = append(regions, bedRegions...)
	}
	if outPath == "" {
		return writeRegions(stdout, r, regions)
	}

	ctx := vcontext.Background()
	out, err := file.Create(ctx, outPath)
	if err != nil {
		return err
	}
	e := errors.Once{}
	if strings.HasSuffix(outPath, ".gz") {
		gz := gzip.NewWriter(out.Writer(ctx))
		e.Set(writeRegions(gz, r, regions))
		e.Set(gz.Close())
	} else {
		e.Set(writeRegions(out.Writer(ctx), r, regions))
	}
	e.Set(out.Close(ctx))
	return e.Err()
}

// writeRegions writes each region as a FASTA record.
func writeRegions(w io.Writer, r refseq.Reader, regions []region) error {
	bw := bufio.NewWriter(w)
	for _, reg := range regions {
		seq, err := r.GetSequence(reg.id, reg.iv)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, ">%s\n", reg.name)
		for len(seq) > lineWidth {
			bw.WriteString(seq[:lineWidth])
			bw.WriteByte('\n')
			seq = seq[lineWidth:]
		}
		if len(seq) > 0 {
			bw.WriteString(seq)
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func faidx(path, indexPath string) error {
	if indexPath == "" {
		indexPath = path + fasta.IndexSuffix
	}
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return err
	}
	out, err := file.Create(ctx, indexPath)
	if err != nil {
		_ = in.Close(ctx)
		return err
	}
	e := errors.Once{}
	e.Set(fasta.GenerateIndex(out.Writer(ctx), in.Reader(ctx)))
	e.Set(in.Close(ctx))
	e.Set(out.Close(ctx))
	if e.Err() != nil {
		_ = file.Remove(ctx, indexPath)
	}
	return e.Err()
}

func probe(w io.Writer) error {
	c := refseq.ProbeFast()
	_, err := fmt.Fprintf(w, "available\t%v\nworking\t%v\n", c.Available, c.Working)
	return err
}
