// Package dateutil normalizes the date spellings that reach the service:
// DD/MM/YYYY from forms and spreadsheets, YYYY-MM-DD from the API, and ISO
// timestamps from clients that serialize Date objects. Dates are stored and
// compared as plain YYYY-MM-DD strings so the calendar day never shifts with
// the server or client timezone.
package dateutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const StorageLayout = "2006-01-02"

var (
	displayPattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	storagePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	isoPattern     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[T ]`)

	// partialPattern accepts prefixes of DD/MM/YYYY so a live-input handler
	// does not reject a date mid-keystroke.
	partialPattern = regexp.MustCompile(`^\d{0,2}(/\d{0,2}(/\d{0,4})?)?$`)
)

// ToStorage converts any recognized spelling to YYYY-MM-DD. Unrecognized
// input is returned unchanged so required-field validation downstream can
// produce a field-level error instead of this package throwing.
func ToStorage(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	if m := displayPattern.FindStringSubmatch(input); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}
	if storagePattern.MatchString(input) {
		return input
	}
	if m := isoPattern.FindStringSubmatch(input); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	return input
}

// ToDisplay converts a stored date to DD/MM/YYYY for presentation. Empty
// input renders as "-".
func ToDisplay(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return "-"
	}

	normalized := ToStorage(input)
	if m := storagePattern.FindStringSubmatch(normalized); m != nil {
		return m[3] + "/" + m[2] + "/" + m[1]
	}
	return input
}

// IsStorageFormat reports whether input is already a YYYY-MM-DD string.
func IsStorageFormat(input string) bool {
	return storagePattern.MatchString(input)
}

// ValidCalendarDate checks day/month ranges including leap-year February.
// Years outside 1900-2100 are rejected.
func ValidCalendarDate(day, month, year int) bool {
	if year < 1900 || year > 2100 {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}

	daysInMonth := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	max := daysInMonth[month-1]
	if month == 2 && isLeapYear(year) {
		max = 29
	}
	return day >= 1 && day <= max
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// IsPartialInput reports whether input could still grow into a valid
// DD/MM/YYYY string, e.g. "12/1" while the user is typing.
func IsPartialInput(input string) bool {
	return partialPattern.MatchString(input)
}

// ValidateStrict rejects a fully-formed date whose components are not a real
// calendar day, e.g. 31/02/2024. Input may be in display or storage format.
func ValidateStrict(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	normalized := ToStorage(input)
	m := storagePattern.FindStringSubmatch(normalized)
	if m == nil {
		return fmt.Errorf("unrecognized date format: %q", input)
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if !ValidCalendarDate(day, month, year) {
		return fmt.Errorf("invalid calendar date: %q", input)
	}
	return nil
}

// Today returns the current date in storage format.
func Today() string {
	return time.Now().Format(StorageLayout)
}
