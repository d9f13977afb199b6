// Package contract holds the activity-state rules for employee contracts.
// Everything here is pure: callers pass the reference "today" so the sweep,
// the stores and the tests all evaluate against the same calendar day.
package contract

import (
	"errors"

	"hris/internal/dateutil"
)

// ReasonEndOfContract is auto-assigned when a contract lapses without an
// explicit inactivity reason.
const ReasonEndOfContract = "EOC"

type Status string

const (
	StatusActive Status = "active"
	StatusNA     Status = "na"
)

var (
	ErrAlreadyActive                 = errors.New("employee is already active")
	ErrRestoreRequiresContractChange = errors.New("must change contract number and end date to restore")
)

// Fields are the three contract fields whose changes are material and
// therefore audited, plus the inactivity marker.
type Fields struct {
	NoKontrak    string
	KontrakAwal  string
	KontrakAkhir string
	SebabNA      *string
}

// MaterialChange reports whether contract number, start or end differ between
// old and new. Dates are normalized first, so a timestamp spelling of the
// same calendar day does not count as a change.
func MaterialChange(old, new Fields) bool {
	return old.NoKontrak != new.NoKontrak ||
		dateutil.ToStorage(old.KontrakAwal) != dateutil.ToStorage(new.KontrakAwal) ||
		dateutil.ToStorage(old.KontrakAkhir) != dateutil.ToStorage(new.KontrakAkhir)
}

// Expired reports whether end is strictly before today. Both are YYYY-MM-DD
// strings, so lexicographic comparison is ordering-correct.
func Expired(end, today string) bool {
	end = dateutil.ToStorage(end)
	if end == "" {
		return false
	}
	return end < today
}

// AutoReason returns the reason to persist at insert time: the supplied one
// if any, EOC when the contract is already past its end, otherwise "".
func AutoReason(end, today, supplied string) string {
	if supplied != "" {
		return supplied
	}
	if Expired(end, today) {
		return ReasonEndOfContract
	}
	return ""
}

// StatusOf derives activity status: NA when the contract has lapsed or an
// inactivity reason is set, whichever comes first. The disjunction matters: a
// record can carry a future end date yet be manually deactivated, or a past
// end date the sweep has not flagged yet.
func StatusOf(fields Fields, today string) Status {
	if fields.SebabNA != nil && *fields.SebabNA != "" {
		return StatusNA
	}
	if Expired(fields.KontrakAkhir, today) {
		return StatusNA
	}
	return StatusActive
}

// ValidateRestoreUpdate gates the second phase of reactivation. An update
// that clears sebab_na is an attempt to restore, and must arrive with a new
// contract number and an end date strictly after today. Clearing the reason
// alone would let an expired contract silently reappear as active.
func ValidateRestoreUpdate(old, new Fields, today string) error {
	wasNA := old.SebabNA != nil && *old.SebabNA != ""
	clearing := new.SebabNA == nil || *new.SebabNA == ""
	if !wasNA || !clearing {
		return nil
	}

	newEnd := dateutil.ToStorage(new.KontrakAkhir)
	if old.NoKontrak == new.NoKontrak || newEnd == "" || newEnd <= today {
		return ErrRestoreRequiresContractChange
	}
	return nil
}
