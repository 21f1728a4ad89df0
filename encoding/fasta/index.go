// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	pkgerrors "github.com/pkg/errors"
)

// IndexEntry is one line of a FASTA index. Index files consist of one
// tab-separated line per sequence: "<name>\t<length>\t<byte offset>\t<bases
// per line>\t<bytes per line>", e.g. "chr3\t12345\t9000\t80\t81".
type IndexEntry struct {
	Name string
	// Length is the number of bases.
	Length uint64
	// Offset is the file offset of the first base.
	Offset uint64
	// LineBases is the number of bases on each full line.
	LineBases uint64
	// LineWidth is the number of bytes on each full line, including the
	// terminator.
	LineWidth uint64
}

// fileOffset returns the file offset of base pos.
func (e IndexEntry) fileOffset(pos uint64) uint64 {
	return e.Offset + pos/e.LineBases*e.LineWidth + pos%e.LineBases
}

// ReadIndex parses a FASTA index. Blank lines are skipped. Columns after the
// fifth, as found in FASTQ indexes, are ignored.
func ReadIndex(in io.Reader) ([]IndexEntry, error) {
	var entries []IndexEntry
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 5 || cols[0] == "" {
			return nil, pkgerrors.Errorf("invalid index line: %s", line)
		}
		e := IndexEntry{Name: cols[0]}
		for i, dst := range []*uint64{&e.Length, &e.Offset, &e.LineBases, &e.LineWidth} {
			v, err := strconv.ParseUint(cols[i+1], 10, 64)
			if err != nil {
				return nil, pkgerrors.Errorf("invalid index line: %s", line)
			}
			*dst = v
		}
		if e.Length > 0 && (e.LineBases == 0 || e.LineWidth < e.LineBases) {
			return nil, pkgerrors.Errorf("invalid line geometry in index line: %s", line)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "couldn't read FASTA index")
	}
	return entries, nil
}

// GenerateIndex generates an index (*.fai) from FASTA.  The index can be later
// passed to NewIndexed() to random-access the FASTA file quickly.
//
// The index format is defined by "samtool faidx"
// (http://www.htslib.org/doc/faidx.html). Sequences without any bases are
// listed with zero length and line geometry.
func GenerateIndex(out io.Writer, in io.Reader) (err error) {
	var (
		tsvOut      = tsv.NewWriter(out)
		r           = bufio.NewReader(in)
		seqName     string
		inSeq       bool
		seqStartOff int64
		totalBases  int
		lineBases   int
		lineWidth   int
		cumByte     int64
		eof         bool
		// ended is set after a short or blank line; no more bases may follow
		// in the same sequence.
		ended bool
	)

	setErr := func(e error) {
		if e != nil && err == nil {
			err = e
		}
	}
	flush := func() {
		if !inSeq {
			return
		}
		if seqName == "" {
			setErr(errors.E(errors.Invalid, "malformed FASTA file: empty sequence name"))
			return
		}
		setErr(writeIndexEntry(tsvOut, IndexEntry{
			Name:      seqName,
			Length:    uint64(totalBases),
			Offset:    uint64(seqStartOff),
			LineBases: uint64(lineBases),
			LineWidth: uint64(lineWidth),
		}))
	}
	for !eof && err == nil {
		fullLine, e := r.ReadBytes('\n')
		if e == io.EOF { // Process fullLine, then exit the loop
			eof = true
		} else if e != nil {
			setErr(e)
		}
		cumByte += int64(len(fullLine))
		line := bytes.TrimRight(fullLine, "\r\n")
		if len(line) == 0 {
			if lineWidth == 0 {
				seqStartOff = cumByte
			} else {
				ended = true
			}
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			flush()
			seqName = SeqName(string(line))
			inSeq = true
			seqStartOff = cumByte
			lineWidth = 0
			lineBases = 0
			totalBases = 0
			ended = false
			continue
		}
		if !inSeq {
			setErr(errors.E(errors.Invalid, "malformed FASTA file: sequence data before the first header"))
			break
		}
		switch {
		case lineWidth == 0:
			lineWidth = len(fullLine)
			lineBases = len(line)
		case ended || len(line) > lineBases || len(fullLine) > lineWidth:
			setErr(errors.E(errors.Invalid, "malformed FASTA file: different line length in sequence", seqName))
			continue
		case len(line) < lineBases || len(fullLine) < lineWidth:
			ended = true
		}
		totalBases += len(line)
	}
	flush()
	setErr(tsvOut.Flush())
	if cumByte == 0 {
		setErr(errors.E(errors.Invalid, "empty FASTA file"))
	}
	return
}

func writeIndexEntry(w *tsv.Writer, e IndexEntry) error {
	w.WriteString(e.Name)
	w.WriteInt64(int64(e.Length))
	w.WriteInt64(int64(e.Offset))
	w.WriteInt64(int64(e.LineBases))
	w.WriteInt64(int64(e.LineWidth))
	return w.EndLine()
}
