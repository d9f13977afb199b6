package bulkimport

import (
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	csvData := strings.Join([]string{
		"Nama_Karyawan,jabatan,nik_vendor,no_kontrak,kontrak_awal,kontrak_akhir,gaji_pokok,tunjangan,tanggal_lahir,email,no_hp",
		"Budi Santoso,Operator,VN-01,K-001,01/01/2025,31/12/2025,5000000,750000,17/08/1995,budi@example.com,0812",
		"Siti Rahma,Admin,VN-02,K-002,01/02/2025,31/01/2026,4500000,,,,",
	}, "\n")

	rows, err := Parse("import.csv", []byte(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Line != 2 || rows[1].Line != 3 {
		t.Fatalf("unexpected line numbers: %d, %d", rows[0].Line, rows[1].Line)
	}
	// Header matching is case-insensitive.
	if got := rows[0].Values["nama_karyawan"]; got != "Budi Santoso" {
		t.Fatalf("nama_karyawan = %q", got)
	}
	if got := rows[1].Values["tunjangan"]; got != "" {
		t.Fatalf("expected empty tunjangan, got %q", got)
	}
}

func TestParseCSVShortRecordPadsEmpty(t *testing.T) {
	csvData := "nama_karyawan,jabatan\nBudi,"
	rows, err := Parse("a.csv", []byte(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Values["jabatan"] != "" {
		t.Fatalf("expected empty jabatan, got %q", rows[0].Values["jabatan"])
	}
}

func TestParseXLSXTemplateRoundTrip(t *testing.T) {
	data, err := TemplateXLSX()
	if err != nil {
		t.Fatalf("template: %v", err)
	}

	rows, err := Parse("template_import.xlsx", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 example row, got %d", len(rows))
	}
	if rows[0].Line != 2 {
		t.Fatalf("expected line 2, got %d", rows[0].Line)
	}
	if got := rows[0].Values["nama_karyawan"]; got != "Budi Santoso" {
		t.Fatalf("nama_karyawan = %q", got)
	}
	if got := rows[0].Values["kontrak_akhir"]; got != "31/12/2025" {
		t.Fatalf("kontrak_akhir = %q", got)
	}
}

func TestParseRejectsUnknownExtension(t *testing.T) {
	if _, err := Parse("data.pdf", []byte("x")); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestTemplateCSVHasHeaderAndExample(t *testing.T) {
	data, err := TemplateCSV()
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one example row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "nama_karyawan,") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
}
