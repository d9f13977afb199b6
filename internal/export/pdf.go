// Package export renders downloadable contract summaries.
package export

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	"hris/internal/contract"
	"hris/internal/dateutil"
	"hris/internal/employee"
	"hris/internal/history"
	"hris/internal/project"
)

const maxHistoryRows = 10

// ContractSummaryPDF renders a one-page overview of an employee's contract
// and the most recent audit entries.
func ContractSummaryPDF(cfg project.Config, rec *employee.Record, entries []history.Entry, today string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Ringkasan Kontrak")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	line := func(label, value string) {
		if value == "" {
			value = "-"
		}
		pdf.Cell(55, 8, label)
		pdf.Cell(0, 8, value)
		pdf.Ln(7)
	}

	line("Proyek", cfg.Label)
	line("Nama Karyawan", rec.NamaKaryawan)
	line("Jabatan", deref(rec.Jabatan))
	line("NIK Vendor", deref(rec.NikVendor))
	line("No Kontrak", rec.NoKontrak)
	line("Kontrak Awal", dateutil.ToDisplay(rec.KontrakAwal))
	line("Kontrak Akhir", dateutil.ToDisplay(rec.KontrakAkhir))

	status := string(contract.StatusOf(rec.ContractFields(), today))
	line("Status", status)
	if rec.SebabNA != nil && *rec.SebabNA != "" {
		line("Sebab NA", *rec.SebabNA)
	}

	pdf.Ln(5)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Riwayat Perubahan Kontrak")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)

	if len(entries) == 0 {
		pdf.Cell(0, 7, "Belum ada perubahan tercatat.")
		pdf.Ln(6)
	}
	if len(entries) > maxHistoryRows {
		entries = entries[:maxHistoryRows]
	}
	for _, e := range entries {
		pdf.Cell(0, 6, e.ModifiedAt.Format("02/01/2006")+"  oleh "+e.ModifiedBy)
		pdf.Ln(5)
		pdf.Cell(8, 6, "")
		pdf.Cell(0, 6, changeLine("No Kontrak", e.NoKontrakLama, e.NoKontrakBaru))
		pdf.Ln(5)
		pdf.Cell(8, 6, "")
		pdf.Cell(0, 6, changeLine("Kontrak Akhir", e.KontrakAkhirLama, e.KontrakAkhirBaru))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func changeLine(label string, lama, baru *string) string {
	from := deref(lama)
	to := deref(baru)
	if from == "" {
		from = "-"
	}
	if to == "" {
		to = "-"
	}
	return label + ": " + from + " menjadi " + to
}
