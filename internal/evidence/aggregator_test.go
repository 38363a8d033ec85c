package evidence

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ecrawley/defence/profiler/internal/mapping"
)

const testMasterKey = "PADLOC_systems\tDefenseFinder_subtypes\tNovel_subtypes\tNovel_types\tDefense_outcome\n" +
	"cbass_type_IIs\tCBASS_IIs\tCBASS_IIs\tCBASS\tAbi\n" +
	"/\tGabija\tGabija\tGabija\tUnknown\n"

func testTable(t *testing.T) *mapping.Table {
	t.Helper()
	table, err := mapping.Load(strings.NewReader(testMasterKey))
	if err != nil {
		t.Fatalf("load master key: %v", err)
	}
	return table
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// blastRow builds one 15-column search row.
func blastRow(qseqid, sseqid, pident, length, evalue, qlen, slen string) string {
	return strings.Join([]string{
		qseqid, sseqid, pident, length, "5", "1",
		"1", "300", "1", "300", evalue, "500",
		"99", qlen, slen,
	}, "\t") + "\n"
}

func TestScanPadloc(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "g_padloc.csv",
		"system,target.name,extra\n"+
			"cbass_type_IIs_1,g@locus_001,x\n"+
			",g@locus_002,x\n"+
			"unmapped_sys,g@locus_003,x\n"+
			"cbass_type_IIs,,x\n")

	agg := NewAggregator(testTable(t))
	n, err := agg.ScanPadloc(path)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 valid hits, got %d", n)
	}

	recs := agg.Records()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}

	first := recs[0]
	if first.ProteinID != "g@locus_001" {
		t.Fatalf("unexpected first protein: %s", first.ProteinID)
	}
	if first.PadlocOriginal != "cbass_type_IIs" {
		t.Fatalf("suffix not normalized: %s", first.PadlocOriginal)
	}
	if !first.PadlocMapped.Valid() || first.PadlocMapped.Name != "CBASS_IIs" {
		t.Fatalf("unexpected mapping: %+v", first.PadlocMapped)
	}

	third := recs[1]
	if third.PadlocMapped.Found {
		t.Fatalf("expected no mapping for unmapped_sys, got %+v", third.PadlocMapped)
	}
}

func TestScanFinderMergesIntoExistingRecord(t *testing.T) {
	dir := t.TempDir()
	padloc := writeFile(t, dir, "g_padloc.csv",
		"target.name,system\ng@locus_001,cbass_type_IIs\n")
	finder := writeFile(t, dir, "g_defense_finder_genes.tsv",
		"hit_id\tsubtype\ng@locus_001\tCBASS_IIs\ng@locus_009\tGabija\n")

	agg := NewAggregator(testTable(t))
	if _, err := agg.ScanPadloc(padloc); err != nil {
		t.Fatalf("scan padloc: %v", err)
	}
	if _, err := agg.ScanFinder(finder); err != nil {
		t.Fatalf("scan finder: %v", err)
	}

	if agg.Len() != 2 {
		t.Fatalf("expected 2 proteins, got %d", agg.Len())
	}

	merged := agg.Record("g@locus_001")
	if merged.PadlocOriginal != "cbass_type_IIs" || merged.FinderOriginal != "CBASS_IIs" {
		t.Fatalf("merge lost fields: %+v", merged)
	}

	finderOnly := agg.Record("g@locus_009")
	if finderOnly.HasPadloc() {
		t.Fatalf("finder row must not create padloc evidence")
	}
	if !finderOnly.FinderMapped.Valid() || finderOnly.FinderMapped.Name != "Gabija" {
		t.Fatalf("unexpected finder mapping: %+v", finderOnly.FinderMapped)
	}
}

func TestScanBlastDirections(t *testing.T) {
	dir := t.TempDir()
	forward := writeFile(t, dir, "fwd.txt",
		blastRow("g@locus_001", "ref_42#CBASS_IIs_1", "95.0", "300", "1e-50", "300", "305")+
			blastRow("g@locus_002", "ref_43#Gabija", "bad", "300", "1e-10", "300", "300"))
	reverse := writeFile(t, dir, "rev.txt",
		blastRow("ref_42#CBASS_IIs_1", "g@locus_001", "94.0", "299", "2e-40", "305", "300"))

	agg := NewAggregator(testTable(t))
	n, err := agg.ScanForwardBlast(forward)
	if err != nil {
		t.Fatalf("scan forward: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 valid forward hit, got %d", n)
	}
	if _, err := agg.ScanReverseBlast(reverse); err != nil {
		t.Fatalf("scan reverse: %v", err)
	}

	rec := agg.Record("g@locus_001")
	wantForward := "CBASS_IIs(95.0%, E=1.0e-50, L=300, Q=300, S=305)"
	if rec.ForwardHit != wantForward {
		t.Fatalf("forward summary = %q, want %q", rec.ForwardHit, wantForward)
	}
	wantReverse := "CBASS_IIs(94.0%, E=2.0e-40)"
	if rec.ReverseHit != wantReverse {
		t.Fatalf("reverse summary = %q, want %q", rec.ReverseHit, wantReverse)
	}
}

func TestMissingAndEmptySourcesAreNotErrors(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.csv", "")

	agg := NewAggregator(testTable(t))
	if _, err := agg.ScanPadloc(filepath.Join(dir, "absent.csv")); err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if _, err := agg.ScanPadloc(empty); err != nil {
		t.Fatalf("empty file must not error: %v", err)
	}
	if _, err := agg.ScanForwardBlast(filepath.Join(dir, "absent.txt")); err != nil {
		t.Fatalf("missing blast file must not error: %v", err)
	}
	if agg.Len() != 0 {
		t.Fatalf("expected no records, got %d", agg.Len())
	}
}

func TestMissingPrimaryColumnsIsFatal(t *testing.T) {
	dir := t.TempDir()
	padloc := writeFile(t, dir, "bad_padloc.csv", "wrong,columns\na,b\n")
	finder := writeFile(t, dir, "bad_finder.tsv", "wrong\tcolumns\na\tb\n")

	agg := NewAggregator(testTable(t))
	if _, err := agg.ScanPadloc(padloc); err == nil {
		t.Fatalf("expected error for padloc file without primary columns")
	}
	if _, err := agg.ScanFinder(finder); err == nil {
		t.Fatalf("expected error for defensefinder file without primary columns")
	}
}

func TestHeaderOnlyFileContributesNothing(t *testing.T) {
	dir := t.TempDir()
	padloc := writeFile(t, dir, "hdr_padloc.csv", "target.name,system\n")

	agg := NewAggregator(testTable(t))
	n, err := agg.ScanPadloc(padloc)
	if err != nil {
		t.Fatalf("header-only file must not error: %v", err)
	}
	if n != 0 || agg.Len() != 0 {
		t.Fatalf("expected no evidence, got %d hits, %d records", n, agg.Len())
	}
}
