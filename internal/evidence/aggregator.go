package evidence

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ecrawley/defence/profiler/internal/mapping"
	"github.com/ecrawley/defence/profiler/internal/models"
)

// Expected column order of the tabular directional-search output.
var blastColumns = []string{
	"qseqid", "sseqid", "pident", "length", "mismatch", "gapopen",
	"qstart", "qend", "sstart", "send", "evalue", "bitscore",
	"qcovs", "qlen", "slen",
}

const (
	blastPident = 2
	blastLength = 3
	blastEvalue = 10
	blastQlen   = 13
	blastSlen   = 14
)

// Aggregator builds one ProteinEvidence record per protein from the four
// evidence sources. Records are created on first reference from any source
// and merged; each source only ever writes its own pair of fields.
type Aggregator struct {
	table   *mapping.Table
	records map[string]*models.ProteinEvidence
}

// NewAggregator creates an aggregator backed by the loaded master key.
func NewAggregator(table *mapping.Table) *Aggregator {
	return &Aggregator{
		table:   table,
		records: make(map[string]*models.ProteinEvidence),
	}
}

// Record returns the evidence record for a protein, creating it if needed.
func (a *Aggregator) Record(proteinID string) *models.ProteinEvidence {
	rec, ok := a.records[proteinID]
	if !ok {
		rec = &models.ProteinEvidence{ProteinID: proteinID}
		a.records[proteinID] = rec
	}
	return rec
}

// Records returns all evidence records sorted by protein identifier.
func (a *Aggregator) Records() []*models.ProteinEvidence {
	out := make([]*models.ProteinEvidence, 0, len(a.records))
	for _, rec := range a.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProteinID < out[j].ProteinID })
	return out
}

// Len returns the number of proteins with at least one observation.
func (a *Aggregator) Len() int { return len(a.records) }

// ScanPadloc loads the PADLOC CSV (columns target.name, system). A missing
// or empty file contributes no evidence; a file with data rows but without
// the primary columns is fatal.
func (a *Aggregator) ScanPadloc(path string) (int, error) {
	rows, header, ok, err := readTable(path, ',', models.SourcePadloc)
	if err != nil || !ok || len(rows) == 0 {
		return 0, err
	}

	idCol, callCol := columnIndex(header, "target.name"), columnIndex(header, "system")
	if idCol < 0 || callCol < 0 {
		return 0, fmt.Errorf("padloc file %s missing target.name/system columns", path)
	}

	processed := 0
	for _, row := range rows {
		proteinID, call, ok := validCall(row, idCol, callCol, models.SourcePadloc)
		if !ok {
			continue
		}
		cleaned := NormalizeSystemName(call)
		rec := a.Record(proteinID)
		rec.PadlocOriginal = cleaned
		rec.PadlocMapped = a.table.PadlocSubtype(cleaned)
		processed++
	}

	log.Printf("evidence: processed %d valid padloc hits", processed)
	return processed, nil
}

// ScanFinder loads the DefenseFinder TSV (columns hit_id, subtype), with the
// same absence and validation semantics as ScanPadloc.
func (a *Aggregator) ScanFinder(path string) (int, error) {
	rows, header, ok, err := readTable(path, '\t', models.SourceFinder)
	if err != nil || !ok || len(rows) == 0 {
		return 0, err
	}

	idCol, callCol := columnIndex(header, "hit_id"), columnIndex(header, "subtype")
	if idCol < 0 || callCol < 0 {
		return 0, fmt.Errorf("defensefinder file %s missing hit_id/subtype columns", path)
	}

	processed := 0
	for _, row := range rows {
		proteinID, call, ok := validCall(row, idCol, callCol, models.SourceFinder)
		if !ok {
			continue
		}
		cleaned := NormalizeSystemName(call)
		rec := a.Record(proteinID)
		rec.FinderOriginal = cleaned
		rec.FinderMapped = a.table.FinderSubtype(cleaned)
		processed++
	}

	log.Printf("evidence: processed %d valid defensefinder hits", processed)
	return processed, nil
}

// ScanForwardBlast loads the forward search output. The query is the genome
// protein; the subject identifier carries the system name. The summary keeps
// all five numeric fields for later admissibility filtering.
func (a *Aggregator) ScanForwardBlast(path string) (int, error) {
	processed := 0
	err := a.scanBlast(path, models.SourceForwardBlast, func(row []string) {
		proteinID := strings.TrimSpace(row[0])
		if proteinID == "" {
			log.Printf("evidence: skipping forward blast row with empty protein id")
			return
		}
		m, ok := blastNumbers(row)
		if !ok {
			log.Printf("evidence: skipping forward blast row with invalid numeric data for %s", proteinID)
			return
		}
		name := SystemFromHitID(strings.TrimSpace(row[1]))
		rec := a.Record(proteinID)
		rec.ForwardHit = fmt.Sprintf("%s(%.1f%%, E=%.1e, L=%d, Q=%d, S=%d)",
			name, m.pident, m.evalue, m.length, m.qlen, m.slen)
		processed++
	})
	if err != nil {
		return processed, err
	}
	log.Printf("evidence: processed %d valid forward blast hits", processed)
	return processed, nil
}

// ScanReverseBlast loads the reverse search output. Direction is flipped:
// the subject is the genome protein and the query identifier carries the
// system name. Only identity and E-value are kept in the summary.
func (a *Aggregator) ScanReverseBlast(path string) (int, error) {
	processed := 0
	err := a.scanBlast(path, models.SourceReverseBlast, func(row []string) {
		proteinID := strings.TrimSpace(row[1])
		if proteinID == "" {
			log.Printf("evidence: skipping reverse blast row with empty protein id")
			return
		}
		m, ok := blastNumbers(row)
		if !ok {
			log.Printf("evidence: skipping reverse blast row with invalid numeric data for %s", proteinID)
			return
		}
		name := SystemFromHitID(strings.TrimSpace(row[0]))
		rec := a.Record(proteinID)
		rec.ReverseHit = fmt.Sprintf("%s(%.1f%%, E=%.1e)", name, m.pident, m.evalue)
		processed++
	})
	if err != nil {
		return processed, err
	}
	log.Printf("evidence: processed %d valid reverse blast hits", processed)
	return processed, nil
}

func (a *Aggregator) scanBlast(path string, source models.EvidenceSource, visit func(row []string)) error {
	rows, _, ok, err := readHeaderless(path, source)
	if err != nil || !ok {
		return err
	}
	for _, row := range rows {
		if len(row) < len(blastColumns) {
			log.Printf("evidence: skipping %s row with %d of %d columns", source, len(row), len(blastColumns))
			continue
		}
		visit(row)
	}
	return nil
}

type blastMetricsRaw struct {
	pident float64
	evalue float64
	length int
	qlen   int
	slen   int
}

func blastNumbers(row []string) (blastMetricsRaw, bool) {
	var m blastMetricsRaw
	var err error
	if m.pident, err = strconv.ParseFloat(strings.TrimSpace(row[blastPident]), 64); err != nil {
		return m, false
	}
	if m.evalue, err = strconv.ParseFloat(strings.TrimSpace(row[blastEvalue]), 64); err != nil {
		return m, false
	}
	if m.length, err = strconv.Atoi(strings.TrimSpace(row[blastLength])); err != nil {
		return m, false
	}
	if m.qlen, err = strconv.Atoi(strings.TrimSpace(row[blastQlen])); err != nil {
		return m, false
	}
	if m.slen, err = strconv.Atoi(strings.TrimSpace(row[blastSlen])); err != nil {
		return m, false
	}
	return m, true
}

// readTable reads a delimited file with a header row. The boolean reports
// whether the source was present and non-empty.
func readTable(path string, comma rune, source models.EvidenceSource) (rows [][]string, header []string, present bool, err error) {
	f, ok, err := openSource(path, source)
	if err != nil || !ok {
		return nil, nil, false, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	header, err = reader.Read()
	if err == io.EOF {
		log.Printf("evidence: %s file has no content, no systems found", source)
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("read %s header: %w", source, err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("evidence: skipping malformed %s row: %v", source, err)
			continue
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		log.Printf("evidence: %s file has headers but no data rows, no systems found", source)
	}
	return rows, header, true, nil
}

// readHeaderless reads a tab-delimited file without a header row.
func readHeaderless(path string, source models.EvidenceSource) (rows [][]string, header []string, present bool, err error) {
	f, ok, err := openSource(path, source)
	if err != nil || !ok {
		return nil, nil, false, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("evidence: skipping malformed %s row: %v", source, err)
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil, true, nil
}

// openSource opens an evidence file. A missing or zero-length file is a
// recoverable "no evidence from this source" condition, not a fault.
func openSource(path string, source models.EvidenceSource) (*os.File, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		log.Printf("evidence: %s file not found, no systems found", source)
		return nil, false, nil
	}
	if info.Size() == 0 {
		log.Printf("evidence: %s file is empty, no systems found", source)
		return nil, false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("open %s file: %w", source, err)
	}
	return f, true, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

func validCall(row []string, idCol, callCol int, source models.EvidenceSource) (proteinID, call string, ok bool) {
	if idCol >= len(row) || callCol >= len(row) {
		log.Printf("evidence: skipping short %s row", source)
		return "", "", false
	}
	proteinID = strings.TrimSpace(row[idCol])
	if proteinID == "" {
		log.Printf("evidence: skipping %s row with empty protein id", source)
		return "", "", false
	}
	call = strings.TrimSpace(row[callCol])
	if call == "" {
		log.Printf("evidence: skipping %s row with empty call for %s", source, proteinID)
		return "", "", false
	}
	return proteinID, call, true
}
