// Package bound validates and formats user-entered search bounds.
package bound

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ErrInvalidBound is wrapped by every validation failure.
var ErrInvalidBound = errors.New("invalid bound")

// Validation failures, each carrying the message shown to the user.
var (
	ErrEmpty      = invalid("Please enter a number")
	ErrNotNumeric = invalid("Please enter only numbers (no letters or special characters)")
	ErrOutOfRange = invalid("Number is too large")
	ErrTooSmall   = invalid("Number must be greater than 1")
)

type invalidError struct {
	msg string
}

func invalid(msg string) error {
	return &invalidError{msg: msg}
}

func (e *invalidError) Error() string {
	return e.msg
}

func (e *invalidError) Unwrap() error {
	return ErrInvalidBound
}

// Parse turns user input such as "1,000,000" into a bound greater than 1.
func Parse(input string) (int, error) {
	raw := strings.TrimSpace(strings.ReplaceAll(input, ",", ""))
	if raw == "" {
		return 0, ErrEmpty
	}
	if !isDigits(raw) {
		return 0, ErrNotNumeric
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrOutOfRange
	}
	if n <= 1 {
		return 0, ErrTooSmall
	}
	return n, nil
}

// Group formats n with thousands separators.
func Group(n int) string {
	return humanize.Comma(int64(n))
}

// Regroup re-inserts thousands separators into a partially typed number.
// cursor is a rune offset into input; the returned offset keeps the cursor
// next to the same digit. Input that is not purely digits and commas is
// returned unchanged.
func Regroup(input string, cursor int) (string, int) {
	raw := strings.ReplaceAll(input, ",", "")
	if raw == "" || !isDigits(raw) {
		return input, cursor
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(input) {
		cursor = len(input)
	}
	digitsBefore := cursor - strings.Count(input[:cursor], ",")

	trimmed := strings.TrimLeft(raw, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	digitsBefore -= len(raw) - len(trimmed)
	if digitsBefore < 0 {
		digitsBefore = 0
	}
	n, _ := new(big.Int).SetString(trimmed, 10)
	formatted := humanize.BigComma(n)

	pos := 0
	seen := 0
	for pos < len(formatted) && seen < digitsBefore {
		if formatted[pos] != ',' {
			seen++
		}
		pos++
	}
	return formatted, pos
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
