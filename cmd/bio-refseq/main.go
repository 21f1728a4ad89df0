// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
bio-refseq reads reference FASTA files through either the indexed engine or
the in-memory fast engine.

  bio-refseq ids [-fast] [-index path] ref.fa
  bio-refseq get [-fast] [-index path] [-bed regions.bed] [-o out.fa.gz] ref.fa chr1:1001-2000 chr2
  bio-refseq faidx ref.fa [ref.fa.fai]
  bio-refseq probe
  bio-refseq checksum [-fast] [-hash seahash|farm|highway] ref.fa
  bio-refseq compare ref.fa

Paths may be local or s3://bucket/key.

Building with "-tags nofastfa" leaves the fast engine out of the binary; -fast
then falls back to the indexed engine with a warning.
*/
package main

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/grail"
	"v.io/x/lib/cmdline"
)

type readerFlags struct {
	fast  *bool
	index *string
}

func addReaderFlags(cmd *cmdline.Command) readerFlags {
	return readerFlags{
		fast:  cmd.Flags.Bool("fast", false, "Load the whole FASTA file in memory using the fast engine, if it is linked in"),
		index: cmd.Flags.String("index", "", "FASTA index filename. By default, set to the FASTA path + .fai. Ignored with -fast"),
	}
}

func newCmdIDs() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "ids",
		Short:    "List the sequence names and lengths of a FASTA file",
		ArgsName: "fasta",
	}
	flags := addReaderFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("ids takes one pathname argument, but got %v", argv)
		}
		return ids(env.Stdout, argv[0], flags)
	})
	return cmd
}

func newCmdGet() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "get",
		Short: "Extract regions of a FASTA file",
		Long: `Each region is either 'chr', 'chr:begin-end' or 'chr:begin-'.
As in samtools, [begin,end] is a 1-based, closed interval. Regions are printed
as FASTA records, in the order given, followed by those of the -bed file.`,
		ArgsName: "fasta [region...]",
	}
	flags := addReaderFlags(cmd)
	out := cmd.Flags.String("o", "", "Output filename. If empty, write to stdout. A name ending in .gz is gzip-compressed")
	bed := cmd.Flags.String("bed", "", "BED file of additional regions to extract")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) < 1 || (len(argv) < 2 && *bed == "") {
			return fmt.Errorf("get takes a pathname and at least one region or -bed, but got %v", argv)
		}
		return get(env.Stdout, argv[0], argv[1:], *bed, *out, flags)
	})
	return cmd
}

func newCmdFaidx() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "faidx",
		Short:    "Generate a samtools-compatible .fai index",
		ArgsName: "fasta [index]",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		switch len(argv) {
		case 1:
			return faidx(argv[0], "")
		case 2:
			return faidx(argv[0], argv[1])
		}
		return fmt.Errorf("faidx takes a FASTA pathname and an optional index pathname, but got %v", argv)
	})
	return cmd
}

func newCmdProbe() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "probe",
		Short: "Report whether the fast engine is linked in and usable",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("probe takes no arguments, but got %v", argv)
		}
		return probe(env.Stdout)
	})
	return cmd
}

func newCmdChecksum() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "checksum",
		Short: `Compute a checksum of a FASTA file.
The checksum is a JSON string listing the length and hash of every sequence`,
		ArgsName: "fasta",
	}
	flags := addReaderFlags(cmd)
	hashName := cmd.Flags.String("hash", "seahash", "Hash function, one of seahash, farm or highway")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("checksum takes one pathname argument, but got %v", argv)
		}
		return checksum(env.Stdout, argv[0], *hashName, flags)
	})
	return cmd
}

func newCmdCompare() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "compare",
		Short:    "Load a FASTA file with both engines and check that they agree",
		ArgsName: "fasta",
	}
	index := cmd.Flags.String("index", "", "FASTA index filename. By default, set to the FASTA path + .fai")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("compare takes one pathname argument, but got %v", argv)
		}
		return compare(env.Stdout, argv[0], *index)
	})
	return cmd
}

func main() {
	shutdown := grail.Init()
	defer shutdown()
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-refseq",
			Short:    "Tools for reading reference FASTA files",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdIDs(),
				newCmdGet(),
				newCmdFaidx(),
				newCmdProbe(),
				newCmdChecksum(),
				newCmdCompare(),
			},
		})
}
