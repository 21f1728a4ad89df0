// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package fastfa

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/refseq/engine"
)

// gtfRecord is one line of a GTF file.
type gtfRecord struct {
	Chrom    string
	Source   string
	Molecule string
	Start    int
	Stop     int
	Score    string // unused floating point value, but may be "."
	Strand   string
	Frame    string
	Fields   string
}

// ParseGTF reads every feature line of the GTF file at path. Compressed input
// is detected from the path suffix.
func ParseGTF(ctx context.Context, path string) (features []engine.Feature, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "fastfa.ParseGTF", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	var inr io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(inr, in.Name()); u != nil {
		defer func() {
			if e := u.Close(); e != nil && err == nil {
				err = e
			}
		}()
		inr = u
	}
	scanner := tsv.NewReader(bufio.NewReaderSize(inr, 64<<10))
	scanner.Comment = '#'
	scanner.LazyQuotes = true
	var line gtfRecord
	for {
		if err := scanner.Read(&line); err != nil {
			if err != io.EOF {
				return nil, errors.E(err, "fastfa.ParseGTF", path)
			}
			break
		}
		if line.Start > line.Stop {
			return nil, errors.E(errors.Invalid, "fastfa.ParseGTF", path,
				"start after end in feature on", line.Chrom)
		}
		features = append(features, engine.Feature{
			Seqname:    line.Chrom,
			Source:     line.Source,
			Feature:    line.Molecule,
			Start:      line.Start,
			End:        line.Stop,
			Score:      line.Score,
			Strand:     line.Strand,
			Frame:      line.Frame,
			Attributes: parseAttributes(line.Fields),
		})
	}
	return features, nil
}

// parseAttributes parses the last GTF column, e.g.
// `gene_id "ENSG1.1"; gene_type "protein_coding";`.
func parseAttributes(attrs string) map[string]string {
	parsed := map[string]string{}
	for _, field := range strings.Split(strings.TrimSpace(attrs), ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		pair := strings.SplitN(field, " ", 2)
		if len(pair) == 1 {
			parsed[pair[0]] = ""
			continue
		}
		parsed[pair[0]] = strings.Trim(strings.TrimSpace(pair[1]), "\"")
	}
	return parsed
}
