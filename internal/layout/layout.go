// Package layout arranges a prime sequence into evenly spaced text columns.
package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultMargin is the number of cells reserved for visual padding.
const DefaultMargin = 20

// NoMargin disables the margin. Any negative Margin behaves the same.
const NoMargin = -1

const ruleChar = "="

// Params describes the space available for one rendering.
type Params struct {
	// AvailableWidth is the display width, in the same unit as CellWidth.
	AvailableWidth int
	// CellWidth is the width of one character cell.
	CellWidth float64
	// Margin is subtracted from AvailableWidth before fitting columns.
	// Zero selects DefaultMargin; use NoMargin to reserve nothing.
	Margin int
}

// NewParams returns terminal-style params with the default margin.
func NewParams(width int) Params {
	return Params{AvailableWidth: width, CellWidth: 1, Margin: DefaultMargin}
}

// ParamsFor builds params from a configured margin, where 0 means no margin.
func ParamsFor(width int, cellWidth float64, margin int) Params {
	if margin == 0 {
		margin = NoMargin
	}
	return Params{AvailableWidth: width, CellWidth: cellWidth, Margin: margin}
}

// Block is a formatted prime listing.
type Block struct {
	Bound      int
	Columns    int
	FieldWidth int
	Rule       string
	Rows       []string
}

// Format lays out ascending primes in right-aligned columns sized to p.
// An empty sequence yields an empty Block.
func Format(primes []int, bound int, p Params) Block {
	if len(primes) == 0 {
		return Block{}
	}
	maxDigits := digits(primes[len(primes)-1])
	fieldWidth := maxDigits + 1
	cols := Columns(maxDigits, p)

	rows := make([]string, 0, (len(primes)+cols-1)/cols)
	var b strings.Builder
	for start := 0; start < len(primes); start += cols {
		b.Reset()
		for i := start; i < start+cols; i++ {
			cell := ""
			if i < len(primes) {
				cell = strconv.Itoa(primes[i])
			}
			b.WriteString(padCell(cell, maxDigits))
			b.WriteByte(' ')
		}
		rows = append(rows, strings.TrimRight(b.String(), " "))
	}

	ruleWidth := cols * fieldWidth
	if len(rows) > 0 {
		ruleWidth = displayWidth(rows[0])
	}
	return Block{
		Bound:      bound,
		Columns:    cols,
		FieldWidth: fieldWidth,
		Rule:       strings.Repeat(ruleChar, ruleWidth),
		Rows:       rows,
	}
}

// Columns returns how many fields of maxDigits+1 cells fit in p. It is
// always at least 1.
func Columns(maxDigits int, p Params) int {
	fieldWidth := maxDigits + 1
	margin := p.Margin
	switch {
	case margin == 0:
		margin = DefaultMargin
	case margin < 0:
		margin = 0
	}
	total := p.AvailableWidth - margin
	if total < 0 {
		total = 0
	}
	charsPerLine := 0
	if p.CellWidth > 0 {
		charsPerLine = int(math.Floor(float64(total) / p.CellWidth))
	}
	cols := charsPerLine / fieldWidth
	if cols < 1 {
		cols = 1
	}
	return cols
}

// Empty reports whether the block has nothing to show.
func (b Block) Empty() bool {
	return len(b.Rows) == 0
}

// Header returns the title line, with the bound rendered by formatBound.
func (b Block) Header(formatBound func(int) string) string {
	if b.Empty() {
		return ""
	}
	if formatBound == nil {
		formatBound = strconv.Itoa
	}
	return "Prime numbers up to " + formatBound(b.Bound) + ":"
}

// Render joins header, rule and rows. formatBound may add digit grouping.
func (b Block) Render(formatBound func(int) string) string {
	if b.Empty() {
		return ""
	}
	var out strings.Builder
	out.WriteString(b.Header(formatBound))
	out.WriteByte('\n')
	out.WriteString(b.Rule)
	out.WriteByte('\n')
	out.WriteString(strings.Join(b.Rows, "\n"))
	return out.String()
}

// String renders the block with the raw bound.
func (b Block) String() string {
	return b.Render(strconv.Itoa)
}

func digits(n int) int {
	return len(strconv.Itoa(n))
}

func padCell(value string, width int) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	return strings.Repeat(" ", width-valueWidth) + value
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
