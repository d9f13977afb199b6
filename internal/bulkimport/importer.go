package bulkimport

import (
	"context"

	"github.com/jackc/pgx/v5"

	"hris/internal/db"
	"hris/internal/employee"
	"hris/internal/project"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// RowError pinpoints one rejected cell or row.
type RowError struct {
	Row      int      `json:"row"`
	Column   string   `json:"column"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

type Result struct {
	Success int        `json:"success"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"errors"`
}

// Import inserts valid rows sequentially inside one transaction and collects
// per-row errors for the rest. Validation failures skip the row and keep
// going; a database error aborts and rolls back everything, including rows
// already inserted in this batch.
func Import(ctx context.Context, beginner db.TxBeginner, cfg project.Config, rows []Row, today string) (Result, error) {
	result := Result{Errors: []RowError{}}

	err := db.WithinTx(ctx, beginner, func(tx pgx.Tx) error {
		store := employee.NewStore(tx, cfg)

		for _, row := range rows {
			in := inputFromRow(row)
			rec, issues := in.Clean(today)
			if len(issues) > 0 {
				result.Failed++
				for _, issue := range issues {
					result.Errors = append(result.Errors, RowError{
						Row:      row.Line,
						Column:   issue.Field,
						Message:  issue.Message,
						Severity: severityOf(issue),
					})
				}
				continue
			}

			if _, err := store.Insert(ctx, rec); err != nil {
				return err
			}
			result.Success++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

func inputFromRow(row Row) employee.Input {
	get := func(col string) string { return row.Values[col] }
	return employee.Input{
		NamaKaryawan: get("nama_karyawan"),
		Jabatan:      get("jabatan"),
		NikVendor:    get("nik_vendor"),
		NoKontrak:    get("no_kontrak"),
		KontrakAwal:  get("kontrak_awal"),
		KontrakAkhir: get("kontrak_akhir"),
		GajiPokok:    get("gaji_pokok"),
		Tunjangan:    get("tunjangan"),
		TanggalLahir: get("tanggal_lahir"),
		Email:        get("email"),
		NoHP:         get("no_hp"),
	}
}

// severityOf distinguishes a row that cannot be imported at all from one the
// caller may want to fix and resubmit: missing required fields are critical,
// malformed dates and numerics are warnings.
func severityOf(issue employee.FieldIssue) Severity {
	if issue.Required {
		return SeverityCritical
	}
	return SeverityWarning
}
