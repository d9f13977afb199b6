// Package numeric validates salary/allowance strings coming from forms and
// bulk uploads. Values arrive with every abuse a payroll spreadsheet can
// produce: currency words, unit suffixes, mixed separators. Anything accepted
// here must survive a real decimal parse so bad data is never coerced to zero
// downstream.
package numeric

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindForbiddenWord    Kind = "forbidden_word"
	KindInvalidCharacter Kind = "invalid_character"
	KindBadPattern       Kind = "bad_pattern"
	KindUnparsable       Kind = "unparsable"
)

type Result struct {
	Valid bool
	Kind  Kind
	Err   string
}

// forbiddenWords are currency and magnitude words that signal the caller
// typed a display amount, not a number. Substring match, case-insensitive.
var forbiddenWords = []string{"rp", "idr", "usd", "ribu", "juta", "rb", "jt", "%"}

var (
	allowedPattern = regexp.MustCompile(`^-?[0-9.,]+$`)

	// Accepted shapes: integer, dot-decimal, comma-decimal, comma-thousands,
	// comma-thousands with dot-decimal.
	integerPattern        = regexp.MustCompile(`^-?\d+$`)
	dotDecimalPattern     = regexp.MustCompile(`^-?\d+\.\d+$`)
	commaDecimalPattern   = regexp.MustCompile(`^-?\d+,\d+$`)
	commaThousandsPattern = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

	magnitudeSuffixPattern = regexp.MustCompile(`(?i)\d\s*([kmb])\b`)
)

// Check classifies value. Empty input is valid: the fields are optional.
func Check(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Result{Valid: true}
	}

	lower := strings.ToLower(trimmed)
	for _, word := range forbiddenWords {
		if strings.Contains(lower, word) {
			return Result{
				Kind: KindForbiddenWord,
				Err:  fmt.Sprintf("contains forbidden currency/unit word %q; enter digits only", word),
			}
		}
	}
	// Bare magnitude suffixes (5k, 2m, 1b) only count when attached to digits,
	// otherwise any value with the letter k/m/b would trip the word check.
	if m := magnitudeSuffixPattern.FindStringSubmatch(trimmed); m != nil {
		return Result{
			Kind: KindForbiddenWord,
			Err:  fmt.Sprintf("contains forbidden magnitude suffix %q; enter the full number", m[1]),
		}
	}

	if !allowedPattern.MatchString(trimmed) {
		return Result{
			Kind: KindInvalidCharacter,
			Err:  "contains invalid characters; only digits, comma, dot and a leading minus are allowed",
		}
	}

	if !integerPattern.MatchString(trimmed) &&
		!dotDecimalPattern.MatchString(trimmed) &&
		!commaDecimalPattern.MatchString(trimmed) &&
		!commaThousandsPattern.MatchString(trimmed) {
		return Result{
			Kind: KindBadPattern,
			Err:  "malformed number; use forms like 5000000, 5000000.50, 5000,50 or 5,000,000.50",
		}
	}

	if _, err := Parse(trimmed); err != nil {
		return Result{
			Kind: KindUnparsable,
			Err:  "value matched a numeric pattern but could not be parsed",
		}
	}
	return Result{Valid: true}
}

// Parse converts an accepted spelling to an exact decimal. Comma-thousands
// are stripped, a lone comma-decimal becomes a dot-decimal.
func Parse(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("empty numeric value")
	}

	switch {
	case commaThousandsPattern.MatchString(trimmed):
		trimmed = strings.ReplaceAll(trimmed, ",", "")
	case commaDecimalPattern.MatchString(trimmed):
		trimmed = strings.Replace(trimmed, ",", ".", 1)
	}

	return decimal.NewFromString(trimmed)
}

// ParseOptional returns nil for empty input and a float pointer otherwise,
// matching the nullable numeric columns.
func ParseOptional(value string) (*float64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	dec, err := Parse(value)
	if err != nil {
		return nil, err
	}
	f, _ := dec.Float64()
	return &f, nil
}
