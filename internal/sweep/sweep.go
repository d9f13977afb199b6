// Package sweep marks employees whose contract end date has passed as
// non-active. The sweep is idempotent: rows already carrying a reason are
// left alone, so a manually entered reason is never overwritten with the
// automatic one.
package sweep

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"hris/internal/contract"
	"hris/internal/db"
	"hris/internal/project"
)

const undefinedTableCode = "42P01"

// Result reports one sweep pass over a single project table.
type Result struct {
	Project string  `json:"project"`
	Marked  int     `json:"marked"`
	IDs     []int64 `json:"ids"`
}

// Run stamps the automatic end-of-contract reason on every active row whose
// contract ended before today. An absent project table yields an empty result
// rather than an error.
func Run(ctx context.Context, q db.Querier, cfg project.Config, today string) (Result, error) {
	result := Result{Project: cfg.Key, IDs: []int64{}}

	rows, err := q.Query(ctx, fmt.Sprintf(`
    UPDATE %s
    SET sebab_na = $1, updated_at = now()
    WHERE kontrak_akhir < $2 AND kontrak_akhir <> '' AND sebab_na IS NULL
    RETURNING id`, cfg.Table), contract.ReasonEndOfContract, today)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode {
			return result, nil
		}
		return Result{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return Result{}, err
		}
		result.IDs = append(result.IDs, id)
	}
	if err := rows.Err(); err != nil {
		return Result{}, err
	}
	result.Marked = len(result.IDs)
	return result, nil
}

// RunAll sweeps every registered project and returns per-project results.
func RunAll(ctx context.Context, q db.Querier, today string) ([]Result, error) {
	var results []Result
	for _, cfg := range project.All() {
		res, err := Run(ctx, q, cfg, today)
		if err != nil {
			return nil, fmt.Errorf("sweep %s: %w", cfg.Key, err)
		}
		results = append(results, res)
	}
	return results, nil
}
