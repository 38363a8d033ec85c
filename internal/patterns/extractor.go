// Package patterns scans many genomes' defence profiles and groups the
// entries the consensus engine could not resolve into a curation template.
package patterns

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ecrawley/defence/profiler/internal/evidence"
	"github.com/ecrawley/defence/profiler/internal/models"
)

// ProfileSuffix is the per-genome profile filename convention.
const ProfileSuffix = "_defenceprofile.csv"

// exampleLimit caps how many protein identifiers a curation row lists.
const exampleLimit = 5

// Extraction is the result of one cross-genome scan. An empty Patterns slice
// is the explicit "nothing to curate" outcome, not an error.
type Extraction struct {
	Patterns     []*models.UnresolvedPattern
	Problematic  int
	Genomes      int
	StatusCounts map[models.Status]int
}

// Empty reports whether there is nothing to curate.
func (e *Extraction) Empty() bool { return len(e.Patterns) == 0 }

// FromDir loads every per-genome profile in dir and extracts unresolved
// patterns. A directory without profile files yields an empty extraction; an
// unreadable individual profile is skipped with a diagnostic.
func FromDir(dir string) (*Extraction, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*"+ProfileSuffix))
	if err != nil {
		return nil, fmt.Errorf("scan consensus dir: %w", err)
	}
	if len(files) == 0 {
		log.Printf("patterns: no profile files found in %s", dir)
		return &Extraction{StatusCounts: map[models.Status]int{}}, nil
	}
	sort.Strings(files)
	log.Printf("patterns: found %d profile files", len(files))

	var problematic []*models.ProfileRow
	for _, file := range files {
		rows, err := readProfile(file)
		if err != nil {
			log.Printf("patterns: skipping %s: %v", file, err)
			continue
		}
		for _, row := range rows {
			if row.Status.Problematic() {
				problematic = append(problematic, row)
			}
		}
	}

	return FromRows(problematic), nil
}

// FromRows groups already-loaded problematic profile rows by their raw
// 4-tuple evidence pattern. Grouping uses the original (pre-canonicalization)
// calls so curators see what the tools actually reported.
func FromRows(rows []*models.ProfileRow) *Extraction {
	groups := make(map[models.PatternKey]*models.UnresolvedPattern)
	genomes := make(map[string]struct{})
	statusCounts := make(map[models.Status]int)

	for _, row := range rows {
		if !row.Status.Problematic() {
			continue
		}
		statusCounts[row.Status]++
		genomes[row.GenomeID()] = struct{}{}

		key := models.PatternKey{
			Padloc:      orNoHit(row.PadlocOriginal),
			Finder:      orNoHit(row.FinderOriginal),
			ForwardName: blastName(row.ForwardBlast),
			ReverseName: blastName(row.ReverseBlast),
		}

		group, ok := groups[key]
		if !ok {
			group = &models.UnresolvedPattern{
				Padloc:      key.Padloc,
				Finder:      key.Finder,
				ForwardName: key.ForwardName,
				ReverseName: key.ReverseName,
			}
			groups[key] = group
		}
		group.Count++
		group.ProteinIDs = append(group.ProteinIDs, row.ProteinID)
	}

	patterns := make([]*models.UnresolvedPattern, 0, len(groups))
	total := 0
	for _, group := range groups {
		patterns = append(patterns, group)
		total += group.Count
	}

	// Largest groups first; ties ordered by tuple for reproducible output.
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return lessKey(patterns[i].Key(), patterns[j].Key())
	})

	return &Extraction{
		Patterns:     patterns,
		Problematic:  total,
		Genomes:      len(genomes),
		StatusCounts: statusCounts,
	}
}

// WriteCuration writes the curation template: one row per pattern with blank
// TYPE/SUBTYPE/OUTCOME columns for the curator to fill in.
func WriteCuration(path string, patterns []*models.UnresolvedPattern) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create curation file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.CurationColumns); err != nil {
		return fmt.Errorf("write curation header: %w", err)
	}

	for _, p := range patterns {
		row := []string{
			p.Padloc, p.Finder, p.ForwardName, p.ReverseName,
			fmt.Sprintf("%d", p.Count), exampleProteins(p.ProteinIDs),
			"", "", "",
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write curation row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush curation file: %w", err)
	}
	return nil
}

// exampleProteins joins up to exampleLimit identifiers, noting the overflow.
func exampleProteins(ids []string) string {
	if len(ids) <= exampleLimit {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s, ... (%d more)", strings.Join(ids[:exampleLimit], ", "), len(ids)-exampleLimit)
}

// readProfile loads one genome's profile CSV by named columns.
func readProfile(path string) ([]*models.ProfileRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read profile header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{"protein_id", "status"} {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("profile missing column %q", name)
		}
	}

	var rows []*models.ProfileRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("patterns: skipping malformed profile row in %s: %v", path, err)
			continue
		}
		rows = append(rows, &models.ProfileRow{
			ProteinID:      cell(record, index, "protein_id"),
			PadlocOriginal: cell(record, index, "padloc_original"),
			FinderOriginal: cell(record, index, "deffind_original"),
			ForwardBlast:   cell(record, index, "fwd_blast"),
			ReverseBlast:   cell(record, index, "rev_blast"),
			Status:         models.Status(cell(record, index, "status")),
		})
	}
	return rows, nil
}

func cell(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func orNoHit(value string) string {
	if value == "" {
		return models.NoHit
	}
	return value
}

// blastName re-strips any metrics suffix so grouping never splits on scores.
func blastName(value string) string {
	if value == "" || value == models.NoHit {
		return models.NoHit
	}
	return evidence.NameFromSummary(value)
}

func lessKey(a, b models.PatternKey) bool {
	if a.Padloc != b.Padloc {
		return a.Padloc < b.Padloc
	}
	if a.Finder != b.Finder {
		return a.Finder < b.Finder
	}
	if a.ForwardName != b.ForwardName {
		return a.ForwardName < b.ForwardName
	}
	return a.ReverseName < b.ReverseName
}
