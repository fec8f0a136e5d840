package stim

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseError reports a malformed row with file + line context (§4.4's
// "errors are reported with file + line context").
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("stim: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("stim: %s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseFile reads a stim file from disk (§6's stim file format) and returns
// its parsed rows.
func ParseFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stim: open %q: %w", path, err)
	}
	defer f.Close()
	rows, err := Parse(f)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.File = path
		}
		return nil, err
	}
	return rows, nil
}

// Parse reads a stim file's rows from r. Lines whose first non-space
// character is '#', '/', or '%' are comments; blank lines are ignored.
// Every other line must be a row of exactly NumColumns whitespace-separated
// numeric fields. A file with no rows is rejected (§4.4, §6).
func Parse(r io.Reader) ([]Row, error) {
	var rows []Row
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line[0] {
		case '#', '/', '%':
			continue
		}
		row, err := parseRow(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Err: err}
		}
		row.line = lineNo
		rows = append(rows, row)
		if len(rows) > MaxRows {
			return nil, &ParseError{Line: lineNo, Err: fmt.Errorf("too many rows (max %d)", MaxRows)}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("stim: read: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("stim: no rows in file")
	}
	return rows, nil
}

func parseRow(line string) (Row, error) {
	fields := strings.Fields(line)
	if len(fields) != NumColumns {
		return Row{}, fmt.Errorf("expected %d columns, got %d", NumColumns, len(fields))
	}
	nums := make([]float64, NumColumns)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Row{}, fmt.Errorf("column %d (%q): %w", i, f, err)
		}
		nums[i] = v
	}
	row := Row{
		DurationSec: nums[0],
		Code:        Code(int(nums[1])),
		P1:          nums[2],
		P2:          nums[3],
		P3:          nums[4],
		P4:          nums[5],
		P5:          nums[6],
		FixSeed:     nums[7] != 0,
		Seed:        uint64(nums[8]),
		Subcode:     Code(int(nums[9])),
		PrevOp:      Op(int(nums[10])),
		Exponent:    nums[11],
	}
	return row, nil
}
