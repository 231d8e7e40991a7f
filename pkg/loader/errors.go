package loader

import (
	"fmt"
	"strings"

	"golang.org/x/xerrors"
)

var (
	ErrFileNotFound  = xerrors.New("file not found")
	ErrMissingValue  = xerrors.New("missing required value")
	ErrMalformedJSON = xerrors.New("malformed JSON array")
)

// SchemaError is returned when the CSV header lacks required columns.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// RowError reports a row that failed validation.
// Row is the 1-based line number in the CSV file, the header being line 1.
type RowError struct {
	Row   int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: field %s: %v", e.Row, e.Field, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
