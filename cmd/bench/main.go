// bench - size comparison for the MML codec
//
// Takes JSON files and reports how large each document is as minified JSON,
// CBOR, and MML, raw and gzipped. Markdown-list documents trade bytes for
// legibility; this tool shows the price.
//
//	bench testdata/*.json
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/PurpleMyst/serde-mml/mml"
)

type caseResult struct {
	name     string
	jsonSize int
	cborSize int
	mmlSize  int
	jsonGz   int
	cborGz   int
	mmlGz    int
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: bench FILE.json ...")
		os.Exit(2)
	}

	var results []caseResult
	for _, path := range os.Args[1:] {
		r, err := measure(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", path, err)
			continue
		}
		results = append(results, r)
	}
	if len(results) == 0 {
		os.Exit(1)
	}

	report(results)
}

func measure(path string) (caseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return caseResult{}, err
	}

	value, err := mml.FromJSON(data)
	if err != nil {
		return caseResult{}, err
	}

	// Minify the JSON side so the comparison is against its wire form, not
	// whatever whitespace the file happened to carry.
	jsonDoc, err := mml.ToJSON(value)
	if err != nil {
		return caseResult{}, err
	}
	cborDoc, err := mml.ToCBOR(value)
	if err != nil {
		return caseResult{}, err
	}
	mmlDoc, err := mml.Marshal(value)
	if err != nil {
		return caseResult{}, err
	}

	return caseResult{
		name:     filepath.Base(path),
		jsonSize: len(jsonDoc),
		cborSize: len(cborDoc),
		mmlSize:  len(mmlDoc),
		jsonGz:   gzippedSize(jsonDoc),
		cborGz:   gzippedSize(cborDoc),
		mmlGz:    gzippedSize(mmlDoc),
	}, nil
}

func gzippedSize(data []byte) int {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return -1
	}
	if err := zw.Close(); err != nil {
		return -1
	}
	return buf.Len()
}

func report(results []caseResult) {
	fmt.Println("| Case | JSON | CBOR | MML | JSON gz | CBOR gz | MML gz |")
	fmt.Println("|------|------|------|-----|---------|---------|--------|")

	var total caseResult
	for _, r := range results {
		fmt.Printf("| %s | %d | %d | %d | %d | %d | %d |\n",
			r.name, r.jsonSize, r.cborSize, r.mmlSize, r.jsonGz, r.cborGz, r.mmlGz)
		total.jsonSize += r.jsonSize
		total.cborSize += r.cborSize
		total.mmlSize += r.mmlSize
		total.jsonGz += r.jsonGz
		total.cborGz += r.cborGz
		total.mmlGz += r.mmlGz
	}

	fmt.Printf("| **Total** | %d | %d | %d | %d | %d | %d |\n",
		total.jsonSize, total.cborSize, total.mmlSize,
		total.jsonGz, total.cborGz, total.mmlGz)
	fmt.Printf("\nMML overhead vs minified JSON: %+.1f%% raw, %+.1f%% gzipped\n",
		pctOver(total.mmlSize, total.jsonSize), pctOver(total.mmlGz, total.jsonGz))
}

func pctOver(got, base int) float64 {
	if base == 0 {
		return 0
	}
	return float64(got-base) / float64(base) * 100
}
