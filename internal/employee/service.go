package employee

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"hris/internal/contract"
	"hris/internal/db"
	"hris/internal/history"
)

// Service orchestrates the store, the contract evaluator and the history
// recorder. The store persists; the service decides what a change means.
type Service struct {
	Store    *Store
	Recorder *history.Recorder
	DB       db.TxBeginner
}

func NewService(store *Store, recorder *history.Recorder, beginner db.TxBeginner) *Service {
	return &Service{Store: store, Recorder: recorder, DB: beginner}
}

// Create validates, cleans and inserts a new record. A contract already past
// its end date gets sebab_na = EOC unless the caller supplied a reason.
func (s *Service) Create(ctx context.Context, in Input, today string) (*Record, error) {
	rec, issues := in.Clean(today)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return s.Store.Insert(ctx, rec)
}

// UpdateResult reports the outcome of an update including whether an audit
// row was written. Audit failures are non-fatal and surface here instead of
// as an error.
type UpdateResult struct {
	Record  *Record             `json:"record"`
	History history.WriteResult `json:"history"`
}

// Update loads the current row, cleans the incoming payload, enforces the
// restore gate, persists, and then records contract history best-effort.
func (s *Service) Update(ctx context.Context, id int64, in Input, modifiedBy, today string) (*UpdateResult, error) {
	old, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rec, issues := in.Clean(today)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	if err := contract.ValidateRestoreUpdate(old.ContractFields(), rec.ContractFields(), today); err != nil {
		return nil, err
	}

	updated, err := s.Store.Update(ctx, id, rec)
	if err != nil {
		return nil, err
	}

	written := s.Recorder.RecordIfChanged(ctx, id, old.ContractFields(), updated.ContractFields(), modifiedBy)
	if written.Err != "" {
		slog.Warn("contract history write failed",
			"project", s.Store.Cfg.Key, "userId", id, "err", written.Err)
	}

	return &UpdateResult{Record: updated, History: written}, nil
}

// SetInactive marks a record NA with a caller-supplied reason.
func (s *Service) SetInactive(ctx context.Context, id int64, reason string) (*Record, error) {
	if reason == "" {
		return nil, &ValidationError{Issues: []FieldIssue{{Field: "sebab_na", Message: "is required", Required: true}}}
	}
	return s.Store.SetSebabNA(ctx, id, &reason)
}

// RestoreResult is the phase-one restore response: the full record with the
// reason cleared, plus the fields the caller must change to finish.
type RestoreResult struct {
	Record         *Record  `json:"record"`
	FieldsToUpdate []string `json:"fieldsToUpdate"`
	Message        string   `json:"message"`
}

// Restore clears sebab_na only. The record stays effectively NA until a
// subsequent update passes the contract-change gate.
func (s *Service) Restore(ctx context.Context, id int64) (*RestoreResult, error) {
	current, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.SebabNA == nil || *current.SebabNA == "" {
		return nil, contract.ErrAlreadyActive
	}

	restored, err := s.Store.SetSebabNA(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	return &RestoreResult{
		Record:         restored,
		FieldsToUpdate: []string{"no_kontrak", "kontrak_akhir"},
		Message:        "reactivation pending: update the contract number and a future end date to complete the restore",
	}, nil
}

// Delete removes the employee with its history and certificate rows in one
// transaction, so a failure midway leaves nothing half-deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return db.WithinTx(ctx, s.DB, func(tx pgx.Tx) error {
		return NewStore(tx, s.Store.Cfg).Delete(ctx, id)
	})
}
