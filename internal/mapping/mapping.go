// Package mapping loads the master tool key: the reference table that
// translates each annotation tool's vocabulary into the shared canonical
// naming scheme. The table is built once at startup and only read afterwards.
package mapping

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ecrawley/defence/profiler/internal/models"
)

// Required master-key columns.
const (
	colPadloc  = "PADLOC_systems"
	colFinder  = "DefenseFinder_subtypes"
	colSubtype = "Novel_subtypes"
	colType    = "Novel_types"
	colOutcome = "Defense_outcome"
)

// Classification is a canonical subtype's resolved type and outcome.
type Classification struct {
	Type    string
	Outcome string
}

// Table holds the three derived lookups. Duplicate keys in the reference
// table are last-write-wins.
type Table struct {
	padloc map[string]string
	finder map[string]string
	class  map[string]Classification
}

// LoadFile reads the master key from a TSV file. An unreadable file is a
// fatal condition for the caller; individual malformed rows are skipped.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open master key: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load master key %s: %w", path, err)
	}
	return t, nil
}

// Load parses master-key rows from r.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{colPadloc, colFinder, colSubtype, colType, colOutcome} {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("master key missing column %q", name)
		}
	}

	t := &Table{
		padloc: make(map[string]string),
		finder: make(map[string]string),
		class:  make(map[string]Classification),
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("mapping: skipping malformed master key row: %v", err)
			continue
		}

		subtype := field(record, index[colSubtype])
		if !usable(subtype) {
			subtype = ""
		}
		if name := field(record, index[colPadloc]); usable(name) {
			t.padloc[name] = subtype
		}
		if name := field(record, index[colFinder]); usable(name) {
			t.finder[name] = subtype
		}
		if usable(subtype) {
			cls := Classification{Type: models.UnmappedType, Outcome: models.UnmappedOutcome}
			if v := field(record, index[colType]); v != "" {
				cls.Type = v
			}
			if v := field(record, index[colOutcome]); v != "" {
				cls.Outcome = v
			}
			t.class[subtype] = cls
		}
	}

	return t, nil
}

// PadlocSubtype looks up the canonical subtype for a PADLOC system name.
func (t *Table) PadlocSubtype(name string) models.MappedCall {
	subtype, ok := t.padloc[name]
	return models.MappedCall{Name: subtype, Found: ok}
}

// FinderSubtype looks up the canonical subtype for a DefenseFinder subtype name.
func (t *Table) FinderSubtype(name string) models.MappedCall {
	subtype, ok := t.finder[name]
	return models.MappedCall{Name: subtype, Found: ok}
}

// Classify resolves a canonical subtype to its type and outcome. Subtypes
// absent from the table get explicit unmapped sentinels, never a missing-key
// fault.
func (t *Table) Classify(subtype string) Classification {
	if cls, ok := t.class[subtype]; ok {
		return cls
	}
	return Classification{Type: models.UnmappedType, Outcome: models.UnmappedOutcome}
}

// Known reports whether a canonical subtype has a classification entry.
func (t *Table) Known(subtype string) bool {
	_, ok := t.class[subtype]
	return ok
}

// Counts returns the sizes of the three lookups, for startup logging.
func (t *Table) Counts() (padloc, finder, classifications int) {
	return len(t.padloc), len(t.finder), len(t.class)
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func usable(name string) bool {
	return name != "" && name != models.NoMappingSentinel
}
