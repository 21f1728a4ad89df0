// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/unsafe"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/refseq"
)

// readBED reads the first three columns of a BED file as regions. BED
// intervals are 0-based and half-open. Blank lines and "#", "track" and
// "browser" lines are skipped. The file may be compressed.
func readBED(path string) (regions []region, err error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	r, _ := compress.NewReader(in.Reader(ctx))
	defer r.Close()
	scanner := bufio.NewScanner(r)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		line := scanner.Bytes()
		if len(line) == 0 || line[0] == '#' || bytes.HasPrefix(line, []byte("track")) || bytes.HasPrefix(line, []byte("browser")) {
			continue
		}
		tokens := bytes.Fields(line)
		if len(tokens) < 3 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("%s:%d: has fewer tokens than expected", path, lineIdx))
		}
		start, err := strconv.Atoi(unsafe.BytesToString(tokens[1]))
		if err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("%s:%d", path, lineIdx), err)
		}
		end, err := strconv.Atoi(unsafe.BytesToString(tokens[2]))
		if err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("%s:%d", path, lineIdx), err)
		}
		if start < 0 || end < start {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("%s:%d: invalid interval [%d, %d)", path, lineIdx, start, end))
		}
		id := string(tokens[0])
		regions = append(regions, region{
			name: fmt.Sprintf("%s:%d-%d", id, start+1, end),
			id:   id,
			iv:   refseq.Span(start, end),
		})
	}
	return regions, scanner.Err()
}
