package bound

import (
	"errors"
	"testing"
)

func TestParseAcceptsGroupedInput(t *testing.T) {
	n, err := Parse(" 1,000,000 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if n != 1000000 {
		t.Fatalf("expected 1000000, got %d", n)
	}
}

func TestParseRejections(t *testing.T) {
	cases := map[string]error{
		"":                        ErrEmpty,
		"  ,, ":                   ErrEmpty,
		"12a":                     ErrNotNumeric,
		"-5":                      ErrNotNumeric,
		"3.5":                     ErrNotNumeric,
		"0":                       ErrTooSmall,
		"1":                       ErrTooSmall,
		"99999999999999999999999": ErrOutOfRange,
	}
	for input, want := range cases {
		_, err := Parse(input)
		if !errors.Is(err, want) {
			t.Fatalf("input %q: expected %v, got %v", input, want, err)
		}
		if !errors.Is(err, ErrInvalidBound) {
			t.Fatalf("input %q: expected error to wrap ErrInvalidBound", input)
		}
	}
}

func TestParseMessages(t *testing.T) {
	_, err := Parse("1")
	if err == nil || err.Error() != "Number must be greater than 1" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestGroup(t *testing.T) {
	if got := Group(78498); got != "78,498" {
		t.Fatalf("unexpected grouping: %q", got)
	}
	if got := Group(999); got != "999" {
		t.Fatalf("unexpected grouping: %q", got)
	}
}

func TestRegroupInsertsSeparators(t *testing.T) {
	out, cursor := Regroup("1000", 4)
	if out != "1,000" || cursor != 5 {
		t.Fatalf("expected \"1,000\" at 5, got %q at %d", out, cursor)
	}
}

func TestRegroupKeepsCursorOnDigit(t *testing.T) {
	// Typing a digit after "12" in "12,345" gives "129,345" with cursor after 9.
	out, cursor := Regroup("129,345", 3)
	if out != "129,345" || cursor != 3 {
		t.Fatalf("unexpected regroup: %q at %d", out, cursor)
	}
	out, cursor = Regroup("1293,45", 4)
	if out != "129,345" || cursor != 5 {
		t.Fatalf("unexpected regroup: %q at %d", out, cursor)
	}
}

func TestRegroupRemovesSeparators(t *testing.T) {
	out, cursor := Regroup("1,00", 4)
	if out != "100" || cursor != 3 {
		t.Fatalf("unexpected regroup: %q at %d", out, cursor)
	}
}

func TestRegroupLeavesInvalidInput(t *testing.T) {
	out, cursor := Regroup("12x", 3)
	if out != "12x" || cursor != 3 {
		t.Fatalf("expected unchanged input, got %q at %d", out, cursor)
	}
}

func TestRegroupHandlesLongDigitRuns(t *testing.T) {
	out, _ := Regroup("123456789012345678901234", 0)
	if out != "123,456,789,012,345,678,901,234" {
		t.Fatalf("unexpected grouping: %q", out)
	}
}
