package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hris/internal/dateutil"
	"hris/internal/db"
	"hris/internal/project"
)

const undefinedTableCode = "42P01"

// recordColumns is the canonical column list shared by every select. The
// per-project tables are structurally identical; only the table name varies.
const recordColumns = `
    id, nama_karyawan, jabatan, nik_vendor, nik_karyawan,
    COALESCE(no_kontrak, ''), kontrak_awal, kontrak_akhir, sebab_na,
    tempat_lahir, tanggal_lahir, alamat, no_hp, email,
    no_ktp, no_npwp, no_bpjs_kesehatan, no_bpjs_ketenagakerjaan,
    gaji_pokok, tunjangan, nama_bank, no_rekening,
    golongan_darah, tanggal_mcu, hasil_mcu,
    created_at, updated_at`

type Store struct {
	DB  db.Querier
	Cfg project.Config
}

func NewStore(q db.Querier, cfg project.Config) *Store {
	return &Store{DB: q, Cfg: cfg}
}

// Insert persists a cleaned record and returns the stored row including the
// generated id. Validation happens in Input.Clean before this is reached.
func (s *Store) Insert(ctx context.Context, rec *Record) (*Record, error) {
	row := s.DB.QueryRow(ctx, fmt.Sprintf(`
    INSERT INTO %s (
      nama_karyawan, jabatan, nik_vendor, nik_karyawan,
      no_kontrak, kontrak_awal, kontrak_akhir, sebab_na,
      tempat_lahir, tanggal_lahir, alamat, no_hp, email,
      no_ktp, no_npwp, no_bpjs_kesehatan, no_bpjs_ketenagakerjaan,
      gaji_pokok, tunjangan, nama_bank, no_rekening,
      golongan_darah, tanggal_mcu, hasil_mcu
    ) VALUES (
      $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24
    )
    RETURNING`+recordColumns, s.Cfg.Table),
		rec.NamaKaryawan, rec.Jabatan, rec.NikVendor, rec.NikKaryawan,
		rec.NoKontrak, rec.KontrakAwal, rec.KontrakAkhir, rec.SebabNA,
		rec.TempatLahir, rec.TanggalLahir, rec.Alamat, rec.NoHP, rec.Email,
		rec.NoKTP, rec.NoNPWP, rec.NoBPJSKesehatan, rec.NoBPJSKetenagakerjaan,
		rec.GajiPokok, rec.Tunjangan, rec.NamaBank, rec.NoRekening,
		rec.GolonganDarah, rec.TanggalMCU, rec.HasilMCU,
	)
	return scanRecord(row)
}

// Update overwrites every mutable column of one row. The caller decides
// whether a history entry follows; persistence and audit stay separate.
func (s *Store) Update(ctx context.Context, id int64, rec *Record) (*Record, error) {
	row := s.DB.QueryRow(ctx, fmt.Sprintf(`
    UPDATE %s SET
      nama_karyawan = $1, jabatan = $2, nik_vendor = $3, nik_karyawan = $4,
      no_kontrak = $5, kontrak_awal = $6, kontrak_akhir = $7, sebab_na = $8,
      tempat_lahir = $9, tanggal_lahir = $10, alamat = $11, no_hp = $12, email = $13,
      no_ktp = $14, no_npwp = $15, no_bpjs_kesehatan = $16, no_bpjs_ketenagakerjaan = $17,
      gaji_pokok = $18, tunjangan = $19, nama_bank = $20, no_rekening = $21,
      golongan_darah = $22, tanggal_mcu = $23, hasil_mcu = $24,
      updated_at = now()
    WHERE id = $25
    RETURNING`+recordColumns, s.Cfg.Table),
		rec.NamaKaryawan, rec.Jabatan, rec.NikVendor, rec.NikKaryawan,
		rec.NoKontrak, rec.KontrakAwal, rec.KontrakAkhir, rec.SebabNA,
		rec.TempatLahir, rec.TanggalLahir, rec.Alamat, rec.NoHP, rec.Email,
		rec.NoKTP, rec.NoNPWP, rec.NoBPJSKesehatan, rec.NoBPJSKetenagakerjaan,
		rec.GajiPokok, rec.Tunjangan, rec.NamaBank, rec.NoRekening,
		rec.GolonganDarah, rec.TanggalMCU, rec.HasilMCU,
		id,
	)
	return scanRecord(row)
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Record, error) {
	row := s.DB.QueryRow(ctx,
		fmt.Sprintf("SELECT"+recordColumns+" FROM %s WHERE id = $1", s.Cfg.Table), id)
	return scanRecord(row)
}

// ListActive returns active employees ordered soonest-expiring first.
func (s *Store) ListActive(ctx context.Context, today string) ([]Record, error) {
	return s.list(ctx, fmt.Sprintf(`
    SELECT`+recordColumns+`
    FROM %s
    WHERE kontrak_akhir >= $1 AND sebab_na IS NULL
    ORDER BY kontrak_akhir ASC, id ASC`, s.Cfg.Table), today)
}

// ListNA returns non-active employees, most recently expired first.
func (s *Store) ListNA(ctx context.Context, today string) ([]Record, error) {
	return s.list(ctx, fmt.Sprintf(`
    SELECT`+recordColumns+`
    FROM %s
    WHERE kontrak_akhir < $1 OR sebab_na IS NOT NULL
    ORDER BY kontrak_akhir DESC, id ASC`, s.Cfg.Table), today)
}

// ListView is the restricted-column listing of active employees.
func (s *Store) ListView(ctx context.Context, today string) ([]ViewRow, error) {
	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
    SELECT id, nama_karyawan, jabatan, nik_vendor, COALESCE(no_kontrak, ''), kontrak_awal, kontrak_akhir
    FROM %s
    WHERE kontrak_akhir >= $1 AND sebab_na IS NULL
    ORDER BY kontrak_akhir ASC, id ASC`, s.Cfg.Table), today)
	if err != nil {
		if isUndefinedTable(err) {
			return []ViewRow{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	out := []ViewRow{}
	for rows.Next() {
		var vr ViewRow
		if err := rows.Scan(&vr.ID, &vr.NamaKaryawan, &vr.Jabatan, &vr.NikVendor, &vr.NoKontrak, &vr.KontrakAwal, &vr.KontrakAkhir); err != nil {
			return nil, err
		}
		vr.KontrakAkhirDisplay = dateutil.ToDisplay(vr.KontrakAkhir)
		out = append(out, vr)
	}
	return out, rows.Err()
}

// SetSebabNA writes only the inactivity reason. A nil reason reactivates
// phase one of the restore flow; contract fields are untouched.
func (s *Store) SetSebabNA(ctx context.Context, id int64, reason *string) (*Record, error) {
	row := s.DB.QueryRow(ctx, fmt.Sprintf(`
    UPDATE %s SET sebab_na = $1, updated_at = now()
    WHERE id = $2
    RETURNING`+recordColumns, s.Cfg.Table), reason, id)
	return scanRecord(row)
}

// Delete removes history rows first, then the employee row. A missing
// history table must not abort the delete.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.DB.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE user_id = $1", s.Cfg.HistoryTable), id); err != nil && !isUndefinedTable(err) {
		return err
	}

	if _, err := s.DB.Exec(ctx,
		"DELETE FROM certificates WHERE project = $1 AND user_id = $2", s.Cfg.Key, id); err != nil && !isUndefinedTable(err) {
		return err
	}

	tag, err := s.DB.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.Cfg.Table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDocument reads the four metadata columns for one document type.
// Returns ErrNoDocument when nothing is on file.
func (s *Store) GetDocument(ctx context.Context, id int64, docType string) (*FileMeta, error) {
	if !s.Cfg.AllowsDocType(docType) {
		return nil, ErrDocTypeInvalid
	}

	var filename, filepath, mimetype *string
	var filesize *int64
	err := s.DB.QueryRow(ctx, fmt.Sprintf(`
    SELECT %[1]s_filename, %[1]s_filepath, %[1]s_mimetype, %[1]s_filesize
    FROM %[2]s WHERE id = $1`, docType, s.Cfg.Table), id).
		Scan(&filename, &filepath, &mimetype, &filesize)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if filename == nil || filepath == nil {
		return nil, ErrNoDocument
	}
	meta := &FileMeta{Filename: *filename, Filepath: *filepath}
	if mimetype != nil {
		meta.Mimetype = *mimetype
	}
	if filesize != nil {
		meta.Filesize = *filesize
	}
	return meta, nil
}

// AttachDocument overwrites the metadata columns and returns the superseded
// filepath so the caller can remove the old physical file.
func (s *Store) AttachDocument(ctx context.Context, id int64, docType string, meta FileMeta) (string, error) {
	if !s.Cfg.AllowsDocType(docType) {
		return "", ErrDocTypeInvalid
	}

	var prev *string
	err := s.DB.QueryRow(ctx, fmt.Sprintf(`
    UPDATE %[2]s SET
      %[1]s_filename = $1, %[1]s_filepath = $2, %[1]s_mimetype = $3, %[1]s_filesize = $4,
      updated_at = now()
    WHERE id = $5
    RETURNING (SELECT %[1]s_filepath FROM %[2]s WHERE id = $5)`, docType, s.Cfg.Table),
		meta.Filename, meta.Filepath, meta.Mimetype, meta.Filesize, id).
		Scan(&prev)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	if prev == nil {
		return "", nil
	}
	return *prev, nil
}

// ClearDocument nulls the metadata columns and returns the removed filepath.
func (s *Store) ClearDocument(ctx context.Context, id int64, docType string) (string, error) {
	if !s.Cfg.AllowsDocType(docType) {
		return "", ErrDocTypeInvalid
	}

	var prev *string
	err := s.DB.QueryRow(ctx, fmt.Sprintf(`
    UPDATE %[2]s SET
      %[1]s_filename = NULL, %[1]s_filepath = NULL, %[1]s_mimetype = NULL, %[1]s_filesize = NULL,
      updated_at = now()
    WHERE id = $1
    RETURNING (SELECT %[1]s_filepath FROM %[2]s WHERE id = $1)`, docType, s.Cfg.Table), id).
		Scan(&prev)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	if prev == nil {
		return "", ErrNoDocument
	}
	return *prev, nil
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		if isUndefinedTable(err) {
			return []Record{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecordFromRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	rec, err := scanRecordFromRows(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func scanRecordFromRows(row scanner) (*Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.NamaKaryawan, &rec.Jabatan, &rec.NikVendor, &rec.NikKaryawan,
		&rec.NoKontrak, &rec.KontrakAwal, &rec.KontrakAkhir, &rec.SebabNA,
		&rec.TempatLahir, &rec.TanggalLahir, &rec.Alamat, &rec.NoHP, &rec.Email,
		&rec.NoKTP, &rec.NoNPWP, &rec.NoBPJSKesehatan, &rec.NoBPJSKetenagakerjaan,
		&rec.GajiPokok, &rec.Tunjangan, &rec.NamaBank, &rec.NoRekening,
		&rec.GolonganDarah, &rec.TanggalMCU, &rec.HasilMCU,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode
}
