// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"blainsmith.com/go/seahash"
	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/unsafe"
	"github.com/grailbio/refseq"
	"github.com/minio/highwayhash"
)

// seqChecksum is the checksum of one sequence.
type seqChecksum struct {
	// Name is the sequence name.
	Name string
	// Length is the number of bases.
	Length int
	// Hash is the hash of the bases.
	Hash uint64
}

// fileChecksum is the checksum of a FASTA file.
type fileChecksum struct {
	HashFunc string
	Seqs     []seqChecksum // in file order
}

var highwayKey [highwayhash.Size]byte

var hashFuncs = map[string]func([]byte) uint64{
	"seahash": func(b []byte) uint64 {
		h := seahash.New()
		h.Write(b)
		return h.Sum64()
	},
	"farm": farm.Hash64,
	"highway": func(b []byte) uint64 {
		return highwayhash.Sum64(b, highwayKey[:])
	},
}

func checksumReader(r refseq.Reader, hashName string) (fileChecksum, error) {
	hash, ok := hashFuncs[hashName]
	if !ok {
		return fileChecksum{}, errors.E(errors.Invalid, fmt.Sprintf("unknown hash function %q; must be one of seahash, farm, highway", hashName))
	}
	csum := fileChecksum{HashFunc: hashName}
	for _, id := range r.Keys() {
		seq, err := r.GetSequence(id, refseq.All())
		if err != nil {
			return fileChecksum{}, err
		}
		csum.Seqs = append(csum.Seqs, seqChecksum{
			Name:   id,
			Length: len(seq),
			Hash:   hash(unsafe.StringToBytes(seq)),
		})
	}
	return csum, nil
}

func checksum(w io.Writer, path, hashName string, flags readerFlags) (err error) {
	r, err := open(path, flags)
	if err != nil {
		return err
	}
	defer func() {
		if e := r.Close(); e != nil && err == nil {
			err = e
		}
	}()
	csum, err := checksumReader(r, hashName)
	if err != nil {
		return err
	}
	js, err := json.MarshalIndent(csum, "", "  ")
	if err != nil {
		log.Panic(err)
	}
	_, err = fmt.Fprintln(w, string(js))
	return err
}

// diffChecksums lists the differences between two checksums, one per line.
func diffChecksums(a, b fileChecksum) []string {
	var diffs []string
	bySeq := make(map[string]seqChecksum, len(b.Seqs))
	for _, s := range b.Seqs {
		bySeq[s.Name] = s
	}
	if len(a.Seqs) != len(b.Seqs) {
		diffs = append(diffs, fmt.Sprintf("sequence count: %d vs %d", len(a.Seqs), len(b.Seqs)))
	}
	for i, sa := range a.Seqs {
		sb, ok := bySeq[sa.Name]
		switch {
		case !ok:
			diffs = append(diffs, fmt.Sprintf("%s: missing from second", sa.Name))
			continue
		case i >= len(b.Seqs) || b.Seqs[i].Name != sa.Name:
			diffs = append(diffs, fmt.Sprintf("%s: order differs", sa.Name))
		}
		if sa.Length != sb.Length {
			diffs = append(diffs, fmt.Sprintf("%s: length %d vs %d", sa.Name, sa.Length, sb.Length))
		} else if sa.Hash != sb.Hash {
			diffs = append(diffs, fmt.Sprintf("%s: bases differ", sa.Name))
		}
	}
	return diffs
}

func loadChecksum(r refseq.Reader, path, indexPath string) (fileChecksum, error) {
	if err := r.Load(path, indexPath); err != nil {
		return fileChecksum{}, err
	}
	csum, err := checksumReader(r, "seahash")
	if e := r.Close(); e != nil && err == nil {
		err = e
	}
	return csum, err
}

// compare loads path with both engines and reports any difference in ids,
// lengths or bases.
func compare(w io.Writer, path, indexPath string) error {
	c := refseq.ProbeFast()
	if !c.OK() {
		return errors.E(errors.Precondition, "compare: the fast engine is not available in this binary")
	}
	indexed, err := loadChecksum(refseq.NewIndexedReader(), path, indexPath)
	if err != nil {
		return err
	}
	fast, err := loadChecksum(refseq.NewFastReader(c.Parser), path, "")
	if err != nil {
		return err
	}
	diffs := diffChecksums(indexed, fast)
	for _, d := range diffs {
		fmt.Fprintln(w, d)
	}
	if len(diffs) > 0 {
		return errors.E(errors.Integrity, fmt.Sprintf("compare %s: %d difference(s) between indexed and fast engines", path, len(diffs)))
	}
	_, err = fmt.Fprintf(w, "%s: %d sequences match\n", path, len(indexed.Seqs))
	return err
}
