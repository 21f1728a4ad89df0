// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// IndexSuffix is appended to a FASTA path to derive its default index path.
const IndexSuffix = ".fai"

// File is an open FASTA file together with its index. It owns the underlying
// file handle until Close is called.
type File struct {
	path      string
	indexPath string
	in        file.File
	fa        Fasta
}

// Open opens the FASTA file at path for random access.
//
// If indexPath is empty, path+".fai" is used. If the index file does not
// exist, it is generated by scanning the FASTA file once, and an attempt is
// made to save it at the index path for later runs. Failure to save the index
// is not an error.
func Open(ctx context.Context, path, indexPath string) (*File, error) {
	if indexPath == "" {
		indexPath = path + IndexSuffix
	}
	index, err := loadOrGenerateIndex(ctx, path, indexPath)
	if err != nil {
		return nil, err
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "fasta.Open", path)
	}
	fa, err := NewIndexed(in.Reader(ctx), bytes.NewReader(index))
	if err != nil {
		_ = in.Close(ctx)
		return nil, errors.E(err, fmt.Sprintf("fasta.Open %s: reading index %s", path, indexPath))
	}
	return &File{path: path, indexPath: indexPath, in: in, fa: fa}, nil
}

func loadOrGenerateIndex(ctx context.Context, path, indexPath string) ([]byte, error) {
	if _, err := file.Stat(ctx, indexPath); err == nil {
		return readFile(ctx, indexPath)
	}
	log.Debug.Printf("fasta.Open %s: index %s not found, generating", path, indexPath)
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "fasta.Open", path)
	}
	var index bytes.Buffer
	err = GenerateIndex(&index, in.Reader(ctx))
	if e := in.Close(ctx); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return nil, errors.E(err, "fasta.Open: generating index for", path)
	}
	if err := writeFile(ctx, indexPath, index.Bytes()); err != nil {
		log.Debug.Printf("fasta.Open %s: couldn't save index %s: %v", path, indexPath, err)
	}
	return index.Bytes(), nil
}

// Path returns the FASTA pathname.
func (f *File) Path() string { return f.path }

// IndexPath returns the pathname of the index used by f.
func (f *File) IndexPath() string { return f.indexPath }

// Fasta returns the underlying random-access reader.
func (f *File) Fasta() Fasta { return f.fa }

// SeqNames returns the sequence names in file order.
func (f *File) SeqNames() []string { return f.fa.SeqNames() }

// Len returns the length of the named sequence.
func (f *File) Len(seqName string) (uint64, error) { return f.fa.Len(seqName) }

// Record returns the named sequence.
func (f *File) Record(seqName string) (*Record, error) {
	n, err := f.fa.Len(seqName)
	if err != nil {
		return nil, err
	}
	return &Record{fa: f.fa, name: seqName, length: n}, nil
}

// Close releases the file handle. Records obtained from f must not be used
// afterwards.
func (f *File) Close(ctx context.Context) error {
	if f.in == nil {
		return nil
	}
	err := f.in.Close(ctx)
	f.in = nil
	return err
}

func readFile(ctx context.Context, path string) (data []byte, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "fasta.Open", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	return ioutil.ReadAll(in.Reader(ctx))
}

func writeFile(ctx context.Context, path string, data []byte) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	_, err = out.Writer(ctx).Write(data)
	return err
}
