package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecrawley/defence/profiler/internal/config"
	"github.com/ecrawley/defence/profiler/internal/database"
	"github.com/ecrawley/defence/profiler/internal/evidence"
	"github.com/ecrawley/defence/profiler/internal/mapping"
	"github.com/ecrawley/defence/profiler/internal/migrations"
	"github.com/ecrawley/defence/profiler/internal/models"
	"github.com/ecrawley/defence/profiler/internal/profile"
)

var profileOpts struct {
	padloc       string
	finder       string
	forwardBlast string
	reverseBlast string
	masterKey    string
	output       string
	dbPath       string
	dbDebug      bool
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Build one genome's defence profile from raw tool outputs",
	RunE:  runProfile,
}

func init() {
	f := profileCmd.Flags()
	f.StringVar(&profileOpts.padloc, "padloc", "", "PADLOC CSV output file")
	f.StringVar(&profileOpts.finder, "defensefinder", "", "DefenseFinder genes TSV output file")
	f.StringVar(&profileOpts.forwardBlast, "forward-blast", "", "forward BLAST best-hits file")
	f.StringVar(&profileOpts.reverseBlast, "reverse-blast", "", "reverse BLAST best-hits file")
	f.StringVar(&profileOpts.masterKey, "master-key", "", "master tool key TSV (default from config)")
	f.StringVar(&profileOpts.output, "output", "", "output profile CSV (derived from the padloc filename if empty)")
	f.StringVar(&profileOpts.dbPath, "db", "", "also persist rows to this SQLite profile store")
	f.BoolVar(&profileOpts.dbDebug, "db-debug", false, "log profile store queries")

	for _, name := range []string{"padloc", "defensefinder", "forward-blast", "reverse-blast"} {
		_ = profileCmd.MarkFlagRequired(name)
	}
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}

	masterKey := profileOpts.masterKey
	if masterKey == "" {
		masterKey = cfg.MasterKey
	}

	// Operator-supplied paths must exist; empty files are still fine and
	// mean "no evidence from this source".
	inputs := map[string]string{
		"padloc":        profileOpts.padloc,
		"defensefinder": profileOpts.finder,
		"forward blast": profileOpts.forwardBlast,
		"reverse blast": profileOpts.reverseBlast,
		"master key":    masterKey,
	}
	for kind, path := range inputs {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%s file not found: %s", kind, path)
		}
	}

	output := profileOpts.output
	if output == "" {
		output = genomeID(profileOpts.padloc) + cfg.ProfileSuffix
	}
	log.Printf("profile: genome %s -> %s", genomeID(profileOpts.padloc), output)

	table, err := mapping.LoadFile(masterKey)
	if err != nil {
		return err
	}
	padlocN, finderN, classN := table.Counts()
	log.Printf("profile: master key loaded: %d padloc, %d defensefinder, %d classification entries",
		padlocN, finderN, classN)

	agg := evidence.NewAggregator(table)
	if _, err := agg.ScanPadloc(profileOpts.padloc); err != nil {
		return err
	}
	if _, err := agg.ScanFinder(profileOpts.finder); err != nil {
		return err
	}
	if _, err := agg.ScanForwardBlast(profileOpts.forwardBlast); err != nil {
		return err
	}
	if _, err := agg.ScanReverseBlast(profileOpts.reverseBlast); err != nil {
		return err
	}

	rows, tally := profile.Build(agg.Records(), table)

	if err := profile.WriteCSV(output, rows); err != nil {
		return err
	}
	profile.LogTally(tally, agg.Len(), len(rows))
	log.Printf("profile: saved %s", output)

	if profileOpts.dbPath != "" {
		if err := persistRows(cmd.Context(), rows); err != nil {
			return err
		}
		log.Printf("profile: stored %d rows in %s", len(rows), profileOpts.dbPath)
	}

	return nil
}

func persistRows(ctx context.Context, rows []*models.ProfileRow) error {
	db, err := database.Open(profileOpts.dbPath, profileOpts.dbDebug)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrate profile store: %w", err)
	}
	if err := profile.InsertRows(ctx, db, rows); err != nil {
		return err
	}

	counts, err := profile.CountByStatus(ctx, db)
	if err != nil {
		return fmt.Errorf("count stored rows: %w", err)
	}
	for _, status := range models.AllStatuses {
		if count := counts[status]; count > 0 {
			log.Printf("profile: store now holds %d %s rows", count, status)
		}
	}
	return nil
}

// genomeID derives the genome identifier from the padloc filename, e.g.
// "1004153.3_padloc.csv" -> "1004153.3".
func genomeID(padlocPath string) string {
	base := filepath.Base(padlocPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, "_padloc")
}
