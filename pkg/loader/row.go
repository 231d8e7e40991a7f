package loader

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"golang.org/x/xerrors"

	"github.com/aquasecurity/snyk-insights/pkg/utils"
)

// row is one CSV data record together with the header index it was read with.
type row struct {
	line   int
	values []string
	index  map[string]int
}

// get returns the trimmed cell of col, or "" if the column is not in the header.
func (r row) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func (r row) errorf(col, format string, args ...any) error {
	return &RowError{Row: r.line, Field: col, Err: xerrors.Errorf(format, args...)}
}

func (r row) required(col string) (string, error) {
	v := r.get(col)
	if v == "" {
		return "", &RowError{Row: r.line, Field: col, Err: ErrMissingValue}
	}
	return v, nil
}

func (r row) optional(col string) *string {
	v := r.get(col)
	if v == "" {
		return nil
	}
	return &v
}

func (r row) int(col string) (int, error) {
	v, err := r.required(col)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, r.errorf(col, "invalid integer %q", v)
	}
	return n, nil
}

// list decodes a JSON array cell such as ["CVE-2023-1234"]. An empty cell is an empty list.
func (r row) list(col string) ([]string, error) {
	v := r.get(col)
	if v == "" {
		return []string{}, nil
	}

	var items []string
	if err := json.Unmarshal([]byte(v), &items); err != nil {
		return nil, &RowError{Row: r.line, Field: col, Err: xerrors.Errorf("%v: %w", err, ErrMalformedJSON)}
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

func (r row) time(col string) (*time.Time, error) {
	v := r.get(col)
	if v == "" {
		return nil, nil
	}
	t, err := utils.ParseTime(v)
	if err != nil {
		return nil, &RowError{Row: r.line, Field: col, Err: err}
	}
	return &t, nil
}
