package employee

import (
	"time"

	"hris/internal/contract"
	"hris/internal/dateutil"
	"hris/internal/numeric"
)

// Record is one employee row in a project table. Nullable columns are
// pointers; dates are calendar-day strings in YYYY-MM-DD.
type Record struct {
	ID           int64   `json:"id"`
	NamaKaryawan string  `json:"nama_karyawan"`
	Jabatan      *string `json:"jabatan"`
	NikVendor    *string `json:"nik_vendor"`
	NikKaryawan  *string `json:"nik_karyawan"`

	NoKontrak    string  `json:"no_kontrak"`
	KontrakAwal  string  `json:"kontrak_awal"`
	KontrakAkhir string  `json:"kontrak_akhir"`
	SebabNA      *string `json:"sebab_na"`

	TempatLahir  *string `json:"tempat_lahir"`
	TanggalLahir *string `json:"tanggal_lahir"`
	Alamat       *string `json:"alamat"`
	NoHP         *string `json:"no_hp"`
	Email        *string `json:"email"`

	NoKTP                 *string `json:"no_ktp"`
	NoNPWP                *string `json:"no_npwp"`
	NoBPJSKesehatan       *string `json:"no_bpjs_kesehatan"`
	NoBPJSKetenagakerjaan *string `json:"no_bpjs_ketenagakerjaan"`

	GajiPokok  *float64 `json:"gaji_pokok"`
	Tunjangan  *float64 `json:"tunjangan"`
	NamaBank   *string  `json:"nama_bank"`
	NoRekening *string  `json:"no_rekening"`

	GolonganDarah *string `json:"golongan_darah"`
	TanggalMCU    *string `json:"tanggal_mcu"`
	HasilMCU      *string `json:"hasil_mcu"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContractFields projects the audited subset of a record.
func (r *Record) ContractFields() contract.Fields {
	return contract.Fields{
		NoKontrak:    r.NoKontrak,
		KontrakAwal:  r.KontrakAwal,
		KontrakAkhir: r.KontrakAkhir,
		SebabNA:      r.SebabNA,
	}
}

// ViewRow is the restricted-column listing exposed on /view.
type ViewRow struct {
	ID                  int64   `json:"id"`
	NamaKaryawan        string  `json:"nama_karyawan"`
	Jabatan             *string `json:"jabatan"`
	NikVendor           *string `json:"nik_vendor"`
	NoKontrak           string  `json:"no_kontrak"`
	KontrakAwal         string  `json:"kontrak_awal"`
	KontrakAkhir        string  `json:"kontrak_akhir"`
	KontrakAkhirDisplay string  `json:"kontrak_akhir_display"`
}

// FileMeta is the stored metadata for one uploaded document.
type FileMeta struct {
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`
	Mimetype string `json:"mimetype"`
	Filesize int64  `json:"filesize"`
}

// Input is the raw payload from forms, API clients and bulk rows. Dates and
// numerics arrive as strings in whatever spelling the client produced.
type Input struct {
	NamaKaryawan string `json:"nama_karyawan"`
	Jabatan      string `json:"jabatan"`
	NikVendor    string `json:"nik_vendor"`
	NikKaryawan  string `json:"nik_karyawan"`

	NoKontrak    string `json:"no_kontrak"`
	KontrakAwal  string `json:"kontrak_awal"`
	KontrakAkhir string `json:"kontrak_akhir"`
	SebabNA      string `json:"sebab_na"`

	TempatLahir  string `json:"tempat_lahir"`
	TanggalLahir string `json:"tanggal_lahir"`
	Alamat       string `json:"alamat"`
	NoHP         string `json:"no_hp"`
	Email        string `json:"email"`

	NoKTP                 string `json:"no_ktp"`
	NoNPWP                string `json:"no_npwp"`
	NoBPJSKesehatan       string `json:"no_bpjs_kesehatan"`
	NoBPJSKetenagakerjaan string `json:"no_bpjs_ketenagakerjaan"`

	GajiPokok  string `json:"gaji_pokok"`
	Tunjangan  string `json:"tunjangan"`
	NamaBank   string `json:"nama_bank"`
	NoRekening string `json:"no_rekening"`

	GolonganDarah string `json:"golongan_darah"`
	TanggalMCU    string `json:"tanggal_mcu"`
	HasilMCU      string `json:"hasil_mcu"`
}

// Clean validates and normalizes an Input into a Record ready to persist.
// Dates are funneled through dateutil, numerics through the sanitizer, empty
// optional fields become NULLs. Returned issues are field-level; a non-empty
// slice means nothing may be written.
func (in Input) Clean(today string) (*Record, []FieldIssue) {
	var issues []FieldIssue

	requireField(&issues, "nama_karyawan", in.NamaKaryawan)
	requireField(&issues, "kontrak_awal", in.KontrakAwal)
	requireField(&issues, "kontrak_akhir", in.KontrakAkhir)

	cleanDate := func(field, raw string) string {
		if raw == "" {
			return ""
		}
		if err := dateutil.ValidateStrict(raw); err != nil {
			issues = append(issues, FieldIssue{Field: field, Message: err.Error()})
			return ""
		}
		return dateutil.ToStorage(raw)
	}

	cleanNumeric := func(field, raw string) *float64 {
		res := numeric.Check(raw)
		if !res.Valid {
			issues = append(issues, FieldIssue{Field: field, Message: res.Err})
			return nil
		}
		value, err := numeric.ParseOptional(raw)
		if err != nil {
			issues = append(issues, FieldIssue{Field: field, Message: "value could not be parsed as a number"})
			return nil
		}
		return value
	}

	rec := &Record{
		NamaKaryawan: in.NamaKaryawan,
		Jabatan:      nullIfEmpty(in.Jabatan),
		NikVendor:    nullIfEmpty(in.NikVendor),
		NikKaryawan:  nullIfEmpty(in.NikKaryawan),

		NoKontrak:    in.NoKontrak,
		KontrakAwal:  cleanDate("kontrak_awal", in.KontrakAwal),
		KontrakAkhir: cleanDate("kontrak_akhir", in.KontrakAkhir),

		TempatLahir:  nullIfEmpty(in.TempatLahir),
		TanggalLahir: nullIfEmpty(cleanDate("tanggal_lahir", in.TanggalLahir)),
		Alamat:       nullIfEmpty(in.Alamat),
		NoHP:         nullIfEmpty(in.NoHP),
		Email:        nullIfEmpty(in.Email),

		NoKTP:                 nullIfEmpty(in.NoKTP),
		NoNPWP:                nullIfEmpty(in.NoNPWP),
		NoBPJSKesehatan:       nullIfEmpty(in.NoBPJSKesehatan),
		NoBPJSKetenagakerjaan: nullIfEmpty(in.NoBPJSKetenagakerjaan),

		GajiPokok:  cleanNumeric("gaji_pokok", in.GajiPokok),
		Tunjangan:  cleanNumeric("tunjangan", in.Tunjangan),
		NamaBank:   nullIfEmpty(in.NamaBank),
		NoRekening: nullIfEmpty(in.NoRekening),

		GolonganDarah: nullIfEmpty(in.GolonganDarah),
		TanggalMCU:    nullIfEmpty(cleanDate("tanggal_mcu", in.TanggalMCU)),
		HasilMCU:      nullIfEmpty(in.HasilMCU),
	}

	if reason := contract.AutoReason(rec.KontrakAkhir, today, in.SebabNA); reason != "" {
		rec.SebabNA = &reason
	}

	if len(issues) > 0 {
		return nil, issues
	}
	return rec, nil
}

func requireField(issues *[]FieldIssue, field, value string) {
	if value == "" {
		*issues = append(*issues, FieldIssue{Field: field, Message: "is required", Required: true})
	}
}

func nullIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
