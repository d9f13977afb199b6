package export

import (
	"bytes"
	"testing"
	"time"

	"hris/internal/employee"
	"hris/internal/history"
	"hris/internal/project"
)

func TestContractSummaryPDF(t *testing.T) {
	cfg, _ := project.Lookup("elnusa")
	jabatan := "Operator"
	rec := &employee.Record{
		ID:           7,
		NamaKaryawan: "Budi Santoso",
		Jabatan:      &jabatan,
		NoKontrak:    "K-2025-001",
		KontrakAwal:  "2025-01-01",
		KontrakAkhir: "2025-12-31",
	}
	old := "K-2024-009"
	entries := []history.Entry{{
		ID:            1,
		UserID:        7,
		NoKontrakLama: &old,
		NoKontrakBaru: &rec.NoKontrak,
		ModifiedBy:    "admin",
		ModifiedAt:    time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}}

	data, err := ContractSummaryPDF(cfg, rec, entries, "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF output, got %q", data[:min(len(data), 8)])
	}
}

func TestContractSummaryPDFNoHistory(t *testing.T) {
	cfg, _ := project.Lookup("regional4")
	rec := &employee.Record{NamaKaryawan: "Siti", KontrakAwal: "2025-01-01", KontrakAkhir: "2024-12-31"}

	data, err := ContractSummaryPDF(cfg, rec, nil, "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected PDF bytes")
	}
}
