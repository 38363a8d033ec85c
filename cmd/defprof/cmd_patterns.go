package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ecrawley/defence/profiler/internal/config"
	"github.com/ecrawley/defence/profiler/internal/database"
	"github.com/ecrawley/defence/profiler/internal/models"
	"github.com/ecrawley/defence/profiler/internal/patterns"
	"github.com/ecrawley/defence/profiler/internal/profile"
)

var patternsOpts struct {
	consensusDir string
	dbPath       string
	dbDebug      bool
	output       string
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Extract unresolved annotation patterns across genomes for curation",
	RunE:  runPatterns,
}

func init() {
	f := patternsCmd.Flags()
	f.StringVar(&patternsOpts.consensusDir, "consensus-dir", "", "directory of *_defenceprofile.csv files (default from config)")
	f.StringVar(&patternsOpts.dbPath, "db", "", "read problematic rows from this SQLite profile store instead of a directory")
	f.BoolVar(&patternsOpts.dbDebug, "db-debug", false, "log profile store queries")
	f.StringVar(&patternsOpts.output, "output", "unresolved_patterns.csv", "output CSV for manual curation")
}

func runPatterns(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}

	var extraction *patterns.Extraction
	if patternsOpts.dbPath != "" {
		extraction, err = extractFromStore(cmd)
	} else {
		dir := patternsOpts.consensusDir
		if dir == "" {
			dir = cfg.ConsensusDir
		}
		extraction, err = patterns.FromDir(dir)
	}
	if err != nil {
		return err
	}

	if extraction.Empty() {
		log.Printf("patterns: no problematic genes found, nothing to curate")
		return nil
	}

	log.Printf("patterns: %d problematic proteins across %d genomes", extraction.Problematic, extraction.Genomes)
	for _, status := range []models.Status{models.StatusMapping, models.StatusConflict} {
		if count := extraction.StatusCounts[status]; count > 0 {
			log.Printf("patterns:   %s: %d", status, count)
		}
	}
	log.Printf("patterns: %d unique patterns to review", len(extraction.Patterns))

	if err := patterns.WriteCuration(patternsOpts.output, extraction.Patterns); err != nil {
		return err
	}
	log.Printf("patterns: saved %s", patternsOpts.output)

	top := extraction.Patterns
	if len(top) > 10 {
		top = top[:10]
	}
	for i, p := range top {
		log.Printf("patterns: %2d. n=%4d  PADLOC:%s DF:%s Fwd:%s Rev:%s",
			i+1, p.Count, p.Padloc, p.Finder, p.ForwardName, p.ReverseName)
	}

	return nil
}

// extractFromStore reads the problematic rows back out of the profile store,
// groups them, and writes the resulting patterns back so the store carries
// the latest curation state alongside the raw rows.
func extractFromStore(cmd *cobra.Command) (*patterns.Extraction, error) {
	ctx := cmd.Context()

	db, err := database.Open(patternsOpts.dbPath, patternsOpts.dbDebug)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := profile.RowsWithStatus(ctx, db, models.StatusMapping, models.StatusConflict)
	if err != nil {
		return nil, fmt.Errorf("query profile store: %w", err)
	}

	extraction := patterns.FromRows(rows)
	if err := profile.ReplacePatterns(ctx, db, extraction.Patterns); err != nil {
		return nil, fmt.Errorf("store curation patterns: %w", err)
	}
	log.Printf("patterns: stored %d patterns in %s", len(extraction.Patterns), patternsOpts.dbPath)
	return extraction, nil
}
