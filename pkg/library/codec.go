// Package library persists book records as CSV files and reads them back.
//
// Files start with a header row holding the eight column titles followed by
// one row per record. Decoding is driven by the header, so columns may appear
// in any order, but a header with unknown or missing titles, or a row whose
// field count differs from the header, fails with a *DecodeError instead of
// producing misaligned records.
//
// Every field round-trips unchanged with one exception: a carriage return
// followed by a newline inside a quoted field is read back as a single
// newline, as encoding/csv normalizes line endings when reading.
package library

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/rubiojr/gbooks/pkg/book"
)

var (
	// ErrNotFound is returned by Read when the file does not exist.
	ErrNotFound = errors.New("library file not found")

	errMissingHeader   = errors.New("missing header row")
	errUnknownColumn   = errors.New("unknown column")
	errDuplicateColumn = errors.New("duplicate column")
	errMissingColumn   = errors.New("missing column")
)

// DecodeError reports a malformed library file.
type DecodeError struct {
	Path string
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("decoding %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("decoding line %d: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode writes the header and one row per record, in input order.
func Encode(w io.Writer, records []book.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(book.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write(r.Values()); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode reads records written by Encode. A header-only input yields an
// empty slice.
func Decode(r io.Reader) ([]book.Record, error) {
	cr := csv.NewReader(r)
	// Every row must match the header's field count.
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &DecodeError{Line: 1, Err: errMissingHeader}
	}
	if err != nil {
		return nil, parseError(err)
	}

	columns, err := headerColumns(header)
	if err != nil {
		return nil, &DecodeError{Line: 1, Err: err}
	}

	records := []book.Record{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(err)
		}
		var rec book.Record
		for i, value := range row {
			rec.Set(columns[i], value)
		}
		records = append(records, rec)
	}
	return records, nil
}

// headerColumns validates the header and returns the column title at each
// position.
func headerColumns(header []string) ([]string, error) {
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if !book.IsColumn(name) {
			return nil, fmt.Errorf("%w %q", errUnknownColumn, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w %q", errDuplicateColumn, name)
		}
		seen[name] = true
	}
	for _, name := range book.Columns {
		if !seen[name] {
			return nil, fmt.Errorf("%w %q", errMissingColumn, name)
		}
	}
	return header, nil
}

func parseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &DecodeError{Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("reading csv: %w", err)
}
