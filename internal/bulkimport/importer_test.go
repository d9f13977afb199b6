package bulkimport

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"

	"hris/internal/project"
)

const today = "2025-06-15"

var recordCols = []string{
	"id", "nama_karyawan", "jabatan", "nik_vendor", "nik_karyawan",
	"no_kontrak", "kontrak_awal", "kontrak_akhir", "sebab_na",
	"tempat_lahir", "tanggal_lahir", "alamat", "no_hp", "email",
	"no_ktp", "no_npwp", "no_bpjs_kesehatan", "no_bpjs_ketenagakerjaan",
	"gaji_pokok", "tunjangan", "nama_bank", "no_rekening",
	"golongan_darah", "tanggal_mcu", "hasil_mcu",
	"created_at", "updated_at",
}

func insertedRow(id int64, name string) []any {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []any{
		id, name, nil, nil, nil,
		"K-001", "2025-01-01", "2025-12-31", nil,
		nil, nil, nil, nil, nil,
		nil, nil, nil, nil,
		nil, nil, nil, nil,
		nil, nil, nil,
		now, now,
	}
}

func validRow(line int, name string) Row {
	return Row{
		Line: line,
		Values: map[string]string{
			"nama_karyawan": name,
			"no_kontrak":    "K-001",
			"kontrak_awal":  "01/01/2025",
			"kontrak_akhir": "31/12/2025",
			"gaji_pokok":    "5000000",
		},
	}
}

func TestImportSkipsBadRowsAndKeepsGoing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	cfg, _ := project.Lookup("elnusa")

	var rows []Row
	for i := 0; i < 10; i++ {
		row := validRow(i+2, fmt.Sprintf("Karyawan %d", i))
		if i == 3 || i == 7 {
			row.Values["gaji_pokok"] = "Rp 5.000.000"
		}
		rows = append(rows, row)
	}

	mock.ExpectBegin()
	for i := 0; i < 8; i++ {
		mock.ExpectQuery("INSERT INTO elnusa_employees").
			WillReturnRows(pgxmock.NewRows(recordCols).AddRow(insertedRow(int64(i+1), "x")...))
	}
	mock.ExpectCommit()

	result, err := Import(context.Background(), mock, cfg, rows, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success != 8 || result.Failed != 2 {
		t.Fatalf("success=%d failed=%d", result.Success, result.Failed)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %d", len(result.Errors))
	}
	for _, re := range result.Errors {
		if re.Column != "gaji_pokok" || re.Severity != SeverityWarning {
			t.Fatalf("unexpected row error: %+v", re)
		}
	}
	if result.Errors[0].Row != 5 || result.Errors[1].Row != 9 {
		t.Fatalf("unexpected error rows: %+v", result.Errors)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestImportMissingNameIsCritical(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	cfg, _ := project.Lookup("elnusa")

	row := validRow(2, "")
	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := Import(context.Background(), mock, cfg, []Row{row}, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Failed != 1 || result.Success != 0 {
		t.Fatalf("success=%d failed=%d", result.Success, result.Failed)
	}
	if result.Errors[0].Severity != SeverityCritical {
		t.Fatalf("expected critical severity, got %s", result.Errors[0].Severity)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestImportDatabaseErrorRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	cfg, _ := project.Lookup("elnusa")

	boom := errors.New("disk full")
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO elnusa_employees").WillReturnError(boom)
	mock.ExpectRollback()

	_, err = Import(context.Background(), mock, cfg, []Row{validRow(2, "Budi")}, today)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped insert error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
