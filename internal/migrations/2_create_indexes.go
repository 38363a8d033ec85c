package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	// Migration 2: indexes
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_profile_rows_protein ON profile_rows(protein_id)",
			"CREATE INDEX IF NOT EXISTS idx_profile_rows_status ON profile_rows(status)",
			"CREATE INDEX IF NOT EXISTS idx_profile_rows_consensus ON profile_rows(final_consensus)",
		}

		for _, idx := range indexes {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return err
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"DROP INDEX IF EXISTS idx_profile_rows_protein",
			"DROP INDEX IF EXISTS idx_profile_rows_status",
			"DROP INDEX IF EXISTS idx_profile_rows_consensus",
		}

		for _, idx := range indexes {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return err
			}
		}

		return nil
	})
}
