// Package certificate manages per-employee certificates. Certificates have
// their own lifecycle, independent of contract state, and are not audited.
package certificate

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"hris/internal/db"
	"hris/internal/project"
)

var ErrNotFound = errors.New("certificate not found")

type Certificate struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"user_id"`
	JudulSertifikat string  `json:"judul_sertifikat"`
	BerlakuMulai    *string `json:"berlaku_mulai"`
	BerlakuSampai   *string `json:"berlaku_sampai"`
}

type Store struct {
	DB  db.Querier
	Cfg project.Config
}

func NewStore(q db.Querier, cfg project.Config) *Store {
	return &Store{DB: q, Cfg: cfg}
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]Certificate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, judul_sertifikat, berlaku_mulai, berlaku_sampai
    FROM certificates
    WHERE project = $1 AND user_id = $2
    ORDER BY id ASC`, s.Cfg.Key, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Certificate{}
	for rows.Next() {
		var c Certificate
		if err := rows.Scan(&c.ID, &c.UserID, &c.JudulSertifikat, &c.BerlakuMulai, &c.BerlakuSampai); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, userID int64, cert Certificate) (*Certificate, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO certificates (project, user_id, judul_sertifikat, berlaku_mulai, berlaku_sampai)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id, user_id, judul_sertifikat, berlaku_mulai, berlaku_sampai`,
		s.Cfg.Key, userID, cert.JudulSertifikat, cert.BerlakuMulai, cert.BerlakuSampai)

	var out Certificate
	if err := row.Scan(&out.ID, &out.UserID, &out.JudulSertifikat, &out.BerlakuMulai, &out.BerlakuSampai); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) Update(ctx context.Context, certID int64, cert Certificate) (*Certificate, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE certificates
    SET judul_sertifikat = $1, berlaku_mulai = $2, berlaku_sampai = $3
    WHERE project = $4 AND id = $5
    RETURNING id, user_id, judul_sertifikat, berlaku_mulai, berlaku_sampai`,
		cert.JudulSertifikat, cert.BerlakuMulai, cert.BerlakuSampai, s.Cfg.Key, certID)

	var out Certificate
	if err := row.Scan(&out.ID, &out.UserID, &out.JudulSertifikat, &out.BerlakuMulai, &out.BerlakuSampai); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (s *Store) Delete(ctx context.Context, certID int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM certificates WHERE project = $1 AND id = $2", s.Cfg.Key, certID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
