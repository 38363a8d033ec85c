// Package profile assembles and persists per-genome defence profiles: one
// row per protein that survived consensus, as CSV and optionally in SQLite.
package profile

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"

	"github.com/ecrawley/defence/profiler/internal/consensus"
	"github.com/ecrawley/defence/profiler/internal/evidence"
	"github.com/ecrawley/defence/profiler/internal/mapping"
	"github.com/ecrawley/defence/profiler/internal/models"
)

// Build runs every evidence record through the consensus engine and the
// classification resolver. FILTERED and ERROR proteins are counted in the
// tally but excluded from the returned rows.
func Build(records []*models.ProteinEvidence, table *mapping.Table) ([]*models.ProfileRow, map[models.Status]int) {
	rows := make([]*models.ProfileRow, 0, len(records))
	tally := make(map[models.Status]int, len(models.AllStatuses))

	for _, rec := range records {
		result := consensus.Decide(rec)
		tally[result.Status]++

		if result.Status.Dropped() {
			continue
		}

		systemType, systemOutcome := consensus.ResolveClassification(result.FinalName, table)

		rows = append(rows, &models.ProfileRow{
			ProteinID:      rec.ProteinID,
			PadlocOriginal: orNoHit(rec.PadlocOriginal),
			PadlocFinal:    mappedOrNoHit(rec.PadlocMapped),
			FinderOriginal: orNoHit(rec.FinderOriginal),
			FinderFinal:    mappedOrNoHit(rec.FinderMapped),
			ForwardBlast:   summaryName(rec.ForwardHit),
			ReverseBlast:   summaryName(rec.ReverseHit),
			Status:         result.Status,
			FinalConsensus: result.FinalName,
			Explanation:    result.Explanation,
			SystemType:     systemType,
			SystemSubtype:  result.FinalName,
			SystemOutcome:  systemOutcome,
		})

		if result.Status == models.StatusResolved || result.Status == models.StatusConflict || result.Status == models.StatusBlast {
			log.Printf("profile: %s: %s -> %s", rec.ProteinID, result.Status, result.FinalName)
		}
	}

	return rows, tally
}

// WriteCSV writes a genome's profile. The file is written once and never
// mutated; an existing file is replaced wholesale.
func WriteCSV(path string, rows []*models.ProfileRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.ProfileColumns); err != nil {
		return fmt.Errorf("write profile header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row.Fields()); err != nil {
			return fmt.Errorf("write profile row %s: %w", row.ProteinID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush profile: %w", err)
	}
	return nil
}

// LogTally prints the status breakdown the way operators expect to read it.
func LogTally(tally map[models.Status]int, total, written int) {
	log.Printf("profile: total proteins processed: %d", total)
	log.Printf("profile: proteins in final profile: %d", written)
	for _, status := range models.AllStatuses {
		if count := tally[status]; count > 0 {
			log.Printf("profile:   %s: %d (%.1f%%)", status, count, float64(count)/float64(total)*100)
		}
	}
}

func orNoHit(value string) string {
	if value == "" {
		return models.NoHit
	}
	return value
}

func mappedOrNoHit(call models.MappedCall) string {
	if call.Valid() {
		return call.Name
	}
	return models.NoHit
}

func summaryName(summary string) string {
	if summary == "" {
		return models.NoHit
	}
	return evidence.NameFromSummary(summary)
}
