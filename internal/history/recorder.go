// Package history appends immutable audit rows for material contract
// changes. Writes are best-effort: a missing audit row is recoverable by
// inspection, a failed employee save is not, so a write failure never fails
// the parent update.
package history

import (
	"context"
	"fmt"
	"time"

	"hris/internal/contract"
	"hris/internal/db"
	"hris/internal/project"
)

type Recorder struct {
	DB  db.Querier
	Cfg project.Config
}

func NewRecorder(q db.Querier, cfg project.Config) *Recorder {
	return &Recorder{DB: q, Cfg: cfg}
}

// WriteResult tells the caller what happened to the audit row. Err is a
// string so the result can ride along in the update response.
type WriteResult struct {
	Skipped bool   `json:"skipped"`
	Written bool   `json:"written"`
	Err     string `json:"error,omitempty"`
}

// Entry is one recorded change: old and new values of the three contract
// fields, who changed them and when.
type Entry struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	NoKontrakLama    *string   `json:"no_kontrak_lama"`
	NoKontrakBaru    *string   `json:"no_kontrak_baru"`
	KontrakAwalLama  *string   `json:"kontrak_awal_lama"`
	KontrakAwalBaru  *string   `json:"kontrak_awal_baru"`
	KontrakAkhirLama *string   `json:"kontrak_akhir_lama"`
	KontrakAkhirBaru *string   `json:"kontrak_akhir_baru"`
	ModifiedBy       string    `json:"modified_by"`
	ModifiedAt       time.Time `json:"modified_at"`
}

// RecordIfChanged writes one audit row when the evaluator flags a material
// change, and no-ops otherwise. Skipping is not an error.
func (r *Recorder) RecordIfChanged(ctx context.Context, userID int64, old, new contract.Fields, modifiedBy string) WriteResult {
	if !contract.MaterialChange(old, new) {
		return WriteResult{Skipped: true}
	}
	if modifiedBy == "" {
		modifiedBy = "system"
	}

	_, err := r.DB.Exec(ctx, fmt.Sprintf(`
    INSERT INTO %s (
      user_id,
      no_kontrak_lama, no_kontrak_baru,
      kontrak_awal_lama, kontrak_awal_baru,
      kontrak_akhir_lama, kontrak_akhir_baru,
      modified_by
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`, r.Cfg.HistoryTable),
		userID,
		old.NoKontrak, new.NoKontrak,
		old.KontrakAwal, new.KontrakAwal,
		old.KontrakAkhir, new.KontrakAkhir,
		modifiedBy,
	)
	if err != nil {
		return WriteResult{Err: err.Error()}
	}
	return WriteResult{Written: true}
}

// ListByUser returns every recorded change for one employee, newest first.
func (r *Recorder) ListByUser(ctx context.Context, userID int64) ([]Entry, error) {
	rows, err := r.DB.Query(ctx, fmt.Sprintf(`
    SELECT id, user_id,
           no_kontrak_lama, no_kontrak_baru,
           kontrak_awal_lama, kontrak_awal_baru,
           kontrak_akhir_lama, kontrak_akhir_baru,
           modified_by, modified_at
    FROM %s
    WHERE user_id = $1
    ORDER BY modified_at DESC, id DESC`, r.Cfg.HistoryTable), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.UserID,
			&e.NoKontrakLama, &e.NoKontrakBaru,
			&e.KontrakAwalLama, &e.KontrakAwalBaru,
			&e.KontrakAkhirLama, &e.KontrakAkhirBaru,
			&e.ModifiedBy, &e.ModifiedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Stats aggregates the audit trail for one project.
type Stats struct {
	TotalChanges        int        `json:"total_changes"`
	NoKontrakChanges    int        `json:"no_kontrak_changes"`
	KontrakAwalChanges  int        `json:"kontrak_awal_changes"`
	KontrakAkhirChanges int        `json:"kontrak_akhir_changes"`
	LastChangeAt        *time.Time `json:"last_change_at"`
}

func (r *Recorder) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := r.DB.QueryRow(ctx, fmt.Sprintf(`
    SELECT COUNT(1),
           COUNT(1) FILTER (WHERE no_kontrak_lama IS DISTINCT FROM no_kontrak_baru),
           COUNT(1) FILTER (WHERE kontrak_awal_lama IS DISTINCT FROM kontrak_awal_baru),
           COUNT(1) FILTER (WHERE kontrak_akhir_lama IS DISTINCT FROM kontrak_akhir_baru),
           MAX(modified_at)
    FROM %s`, r.Cfg.HistoryTable)).
		Scan(&stats.TotalChanges, &stats.NoKontrakChanges, &stats.KontrakAwalChanges, &stats.KontrakAkhirChanges, &stats.LastChangeAt)
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}
