// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package refseq provides access to reference sequences in FASTA files
// through a single Reader interface, backed by one of two engines:
//
//   - the indexed engine (encoding/fasta), which reads bases lazily from disk
//     using a samtools-compatible *.fai index, and
//   - the fast engine (encoding/fastfa), which parses the whole file into
//     memory up front and has no index.
//
// The fast engine is optional. It is used only when the caller asks for it,
// the engine is linked into the binary, and it provides the expected entry
// points; otherwise the indexed engine is used and the reason is logged.
//
// Example:
//
//   r, err := refseq.Open("ref.fa", "", true)
//   if err != nil {
//     ...
//   }
//   defer r.Close()
//   seq, err := r.GetSequence("chr1", refseq.Span(10, 20))
//
// All coordinates are 0-based and half-open.
package refseq
