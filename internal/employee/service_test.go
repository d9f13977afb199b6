package employee

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"

	"hris/internal/history"
	"hris/internal/project"
)

func newMockService(t *testing.T) (pgxmock.PgxPoolIface, *Service) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	cfg, _ := project.Lookup("elnusa")
	return mock, NewService(NewStore(mock, cfg), history.NewRecorder(mock, cfg), mock)
}

func TestDeleteRunsInOneTransaction(t *testing.T) {
	mock, svc := newMockService(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM elnusa_contract_history WHERE user_id").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("DELETE FROM certificates WHERE project").
		WithArgs("elnusa", int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM elnusa_employees WHERE id").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	if err := svc.Delete(context.Background(), 7); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteRollsBackOnFailure(t *testing.T) {
	mock, svc := newMockService(t)
	defer mock.Close()

	boom := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM elnusa_contract_history WHERE user_id").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM certificates WHERE project").
		WithArgs("elnusa", int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM elnusa_employees WHERE id").
		WithArgs(int64(7)).
		WillReturnError(boom)
	mock.ExpectRollback()

	if err := svc.Delete(context.Background(), 7); !errors.Is(err, boom) {
		t.Fatalf("want underlying delete error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
