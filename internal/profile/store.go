package profile

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/ecrawley/defence/profiler/internal/models"
)

// InsertRows persists one genome's profile rows in a single transaction so a
// partially-written genome never reaches the database.
func InsertRows(ctx context.Context, db *bun.DB, rows []*models.ProfileRow) error {
	if len(rows) == 0 {
		return nil
	}
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
}

// RowsWithStatus fetches all stored rows carrying any of the given statuses,
// ordered by protein identifier.
func RowsWithStatus(ctx context.Context, db *bun.DB, statuses ...models.Status) ([]*models.ProfileRow, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	var rows []*models.ProfileRow
	err := db.NewSelect().
		Model(&rows).
		Where("status IN (?)", bun.In(values)).
		Order("protein_id ASC").
		Scan(ctx)

	return rows, err
}

// ReplacePatterns rebuilds the stored curation patterns from scratch. The
// pattern table reflects the latest extraction only, so the previous run's
// rows are dropped in the same transaction.
func ReplacePatterns(ctx context.Context, db *bun.DB, patterns []*models.UnresolvedPattern) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.UnresolvedPattern)(nil)).Where("1 = 1").Exec(ctx); err != nil {
			return err
		}
		if len(patterns) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&patterns).Exec(ctx)
		return err
	})
}

// StoredPatterns fetches the persisted curation patterns, largest groups
// first, matching the extraction's output order.
func StoredPatterns(ctx context.Context, db *bun.DB) ([]*models.UnresolvedPattern, error) {
	var patterns []*models.UnresolvedPattern
	err := db.NewSelect().
		Model(&patterns).
		Order("protein_count DESC", "padloc ASC", "defensefinder ASC", "blast_fwd ASC", "blast_rev ASC").
		Scan(ctx)
	return patterns, err
}

// CountByStatus returns how many stored rows carry each status.
func CountByStatus(ctx context.Context, db *bun.DB) (map[models.Status]int, error) {
	var groups []struct {
		Status models.Status `bun:"status"`
		Count  int           `bun:"count"`
	}

	err := db.NewSelect().
		Model((*models.ProfileRow)(nil)).
		ColumnExpr("status").
		ColumnExpr("count(*) AS count").
		Group("status").
		Scan(ctx, &groups)
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Status]int, len(groups))
	for _, g := range groups {
		counts[g.Status] = g.Count
	}
	return counts, nil
}
