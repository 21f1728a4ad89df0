package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/refseq"
	"github.com/grailbio/testutil"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

const (
	testFasta = ">chr1 first\n" +
		"ACGTACGTAC\n" +
		"GTACGTACGT\n" +
		"AAAA\n" +
		">HLA-A*01:01\n" +
		"CCCCGGGG\n"
	testIndex = "chr1\t24\t12\t10\t11\n" +
		"HLA-A*01:01\t8\t52\t8\t9\n"
)

func writeTestFasta(t *testing.T) (string, func()) {
	dir, cleanup := testutil.TempDir(t, "", "")
	path := filepath.Join(dir, "ref.fa")
	require.NoError(t, ioutil.WriteFile(path, []byte(testFasta), 0644))
	return path, cleanup
}

func flagsFor(fast bool, index string) readerFlags {
	return readerFlags{fast: &fast, index: &index}
}

func TestParseRegion(t *testing.T) {
	known := func(id string) bool { return id == "HLA-A*01:01" || id == "chr1" }
	tests := []struct {
		arg  string
		id   string
		want refseq.Interval
	}{
		{"chr1", "chr1", refseq.All()},
		{"chr1:11-20", "chr1", refseq.Span(10, 20)},
		{"chr1:1,001-2,000", "chr1", refseq.Span(1000, 2000)},
		{"chr1:5-", "chr1", refseq.From(4)},
		{"chr1:5", "chr1", refseq.From(4)},
		{"HLA-A*01:01", "HLA-A*01:01", refseq.All()},
		{"HLA-A*01:01:2-3", "HLA-A*01:01", refseq.Span(1, 3)},
	}
	for _, test := range tests {
		r, err := parseRegion(test.arg, known)
		require.NoError(t, err, test.arg)
		require.Equal(t, test.id, r.id, test.arg)
		require.Equal(t, test.want, r.iv, test.arg)
		require.Equal(t, test.arg, r.name)
	}
	_, err := parseRegion("chr1:0-5", known)
	require.Error(t, err)
	_, err = parseRegion("chr1:10-5", known)
	require.Error(t, err)
}

func TestIDs(t *testing.T) {
	path, cleanup := writeTestFasta(t)
	defer cleanup()
	for _, fast := range []bool{false, true} {
		var out bytes.Buffer
		require.NoError(t, ids(&out, path, flagsFor(fast, "")))
		require.Equal(t, "chr1\t24\nHLA-A*01:01\t8\n", out.String())
	}
}

func TestGet(t *testing.T) {
	path, cleanup := writeTestFasta(t)
	defer cleanup()
	dir := filepath.Dir(path)

	want := ">chr1:9-12\nACGT\n>HLA-A*01:01\nCCCCGGGG\n"
	for _, fast := range []bool{false, true} {
		var out bytes.Buffer
		require.NoError(t, get(&out, path, []string{"chr1:9-12", "HLA-A*01:01"}, "", "", flagsFor(fast, "")))
		require.Equal(t, want, out.String())
	}

	gzPath := filepath.Join(dir, "out.fa.gz")
	require.NoError(t, get(nil, path, []string{"chr1:9-12", "HLA-A*01:01"}, "", gzPath, flagsFor(false, "")))
	f, err := os.Open(gzPath)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := ioutil.ReadAll(gz)
	require.NoError(t, err)
	require.Equal(t, want, string(data))

	err = get(nil, path, []string{"chr2"}, "", "", flagsFor(false, ""))
	require.Error(t, err)
	require.Contains(t, err.Error(), `did you mean "chr1"?`)
}

func TestGetBED(t *testing.T) {
	path, cleanup := writeTestFasta(t)
	defer cleanup()
	bed := filepath.Join(filepath.Dir(path), "regions.bed")
	require.NoError(t, ioutil.WriteFile(bed, []byte("# comment\ntrack name=x\nchr1\t8\t12\tfoo\n\nHLA-A*01:01\t0\t4\n"), 0644))

	var out bytes.Buffer
	require.NoError(t, get(&out, path, []string{"chr1:1-2"}, bed, "", flagsFor(true, "")))
	require.Equal(t, ">chr1:1-2\nAC\n>chr1:9-12\nACGT\n>HLA-A*01:01:1-4\nCCCC\n", out.String())

	require.NoError(t, ioutil.WriteFile(bed, []byte("chr1\t8\n"), 0644))
	require.Error(t, get(&out, path, nil, bed, "", flagsFor(false, "")))
	require.NoError(t, ioutil.WriteFile(bed, []byte("chr1\t8\t4\n"), 0644))
	require.Error(t, get(&out, path, nil, bed, "", flagsFor(false, "")))
}

func TestFaidx(t *testing.T) {
	path, cleanup := writeTestFasta(t)
	defer cleanup()
	require.NoError(t, faidx(path, ""))
	data, err := ioutil.ReadFile(path + ".fai")
	require.NoError(t, err)
	require.Equal(t, testIndex, string(data))

	custom := filepath.Join(filepath.Dir(path), "custom.fai")
	require.NoError(t, faidx(path, custom))
	var out bytes.Buffer
	require.NoError(t, ids(&out, path, flagsFor(false, custom)))
	require.Equal(t, "chr1\t24\nHLA-A*01:01\t8\n", out.String())
}

func TestProbe(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, probe(&out))
	require.Equal(t, "available\ttrue\nworking\ttrue\n", out.String())
}

func TestChecksum(t *testing.T) {
	path, cleanup := writeTestFasta(t)
	defer cleanup()

	sums := map[string]uint64{}
	for _, hashName := range []string{"seahash", "farm", "highway"} {
		var results [2]fileChecksum
		for i, fast := range []bool{false, true} {
			var out bytes.Buffer
			require.NoError(t, checksum(&out, path, hashName, flagsFor(fast, "")))
			require.NoError(t, json.Unmarshal(out.Bytes(), &results[i]))
		}
		require.Equal(t, results[0], results[1])
		require.Equal(t, hashName, results[0].HashFunc)
		require.Len(t, results[0].Seqs, 2)
		require.Equal(t, "chr1", results[0].Seqs[0].Name)
		require.Equal(t, 24, results[0].Seqs[0].Length)
		sums[hashName] = results[0].Seqs[0].Hash
	}
	require.NotEqual(t, sums["seahash"], sums["farm"])
	require.NotEqual(t, sums["farm"], sums["highway"])

	err := checksum(ioutil.Discard, path, "md5", flagsFor(false, ""))
	require.Error(t, err)
}

func TestCompare(t *testing.T) {
	path, cleanup := writeTestFasta(t)
	defer cleanup()
	var out bytes.Buffer
	require.NoError(t, compare(&out, path, ""))
	require.Contains(t, out.String(), "2 sequences match")

	// A stale index makes the engines disagree.
	stale := filepath.Join(filepath.Dir(path), "stale.fai")
	require.NoError(t, ioutil.WriteFile(stale, []byte("chr1\t20\t12\t10\t11\nHLA-A*01:01\t8\t52\t8\t9\n"), 0644))
	out.Reset()
	err := compare(&out, path, stale)
	require.Error(t, err)
	require.Contains(t, out.String(), "chr1: length 20 vs 24")
}

func TestDiffChecksums(t *testing.T) {
	a := fileChecksum{Seqs: []seqChecksum{{"a", 1, 10}, {"b", 2, 20}}}
	b := fileChecksum{Seqs: []seqChecksum{{"b", 2, 21}, {"a", 1, 10}}}
	require.Equal(t, []string{"a: order differs", "b: order differs", "b: bases differ"}, diffChecksums(a, b))
	require.Empty(t, diffChecksums(a, a))
}
