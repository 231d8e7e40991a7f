package loader

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/oops"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/snyk-insights/pkg/log"
	"github.com/aquasecurity/snyk-insights/pkg/types"
)

const (
	ColumnSeverityRank    = "ISSUE_SEVERITY_RANK"
	ColumnSeverity        = "ISSUE_SEVERITY"
	ColumnScore           = "SCORE"
	ColumnProblemTitle    = "PROBLEM_TITLE"
	ColumnCVE             = "CVE"
	ColumnCVEURL          = "CVE_URL"
	ColumnCWE             = "CWE"
	ColumnProjectName     = "PROJECT_NAME"
	ColumnProjectURL      = "PROJECT_URL"
	ColumnExploitMaturity = "EXPLOIT_MATURITY"
	ColumnFixability      = "COMPUTED_FIXABILITY"
	ColumnFirstIntroduced = "FIRST_INTRODUCED"
	ColumnProductName     = "PRODUCT_NAME"
	ColumnIssueURL        = "ISSUE_URL"
	ColumnStatusIndicator = "ISSUE_STATUS_INDICATOR"
	ColumnIssueType       = "ISSUE_TYPE"
)

var (
	// RequiredColumns must all appear in the CSV header. Names are case-sensitive.
	RequiredColumns = []string{
		ColumnSeverityRank,
		ColumnSeverity,
		ColumnScore,
		ColumnProblemTitle,
		ColumnCVE,
		ColumnCVEURL,
		ColumnCWE,
		ColumnProjectName,
		ColumnProjectURL,
		ColumnFixability,
		ColumnIssueURL,
		ColumnStatusIndicator,
		ColumnIssueType,
	}

	OptionalColumns = []string{
		ColumnExploitMaturity,
		ColumnFirstIntroduced,
		ColumnProductName,
	}
)

const utf8BOM = "\ufeff"

// Load reads the Snyk issues export at path.
func Load(path string) ([]types.IssueRecord, error) {
	eb := oops.In("loader").With("file_path", path)

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, eb.Wrapf(ErrFileNotFound, "csv open error")
	} else if err != nil {
		return nil, eb.Wrapf(err, "csv open error")
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, eb.Wrapf(err, "csv load error")
	}

	log.Info("Loaded issues", log.FilePath(path), log.Int("count", len(records)))
	return records, nil
}

// Read parses a Snyk issues export. It stops at the first invalid row.
func Read(r io.Reader) ([]types.IssueRecord, error) {
	logger := log.WithPrefix("loader")

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Missing: RequiredColumns}
	} else if err != nil {
		return nil, xerrors.Errorf("csv header error: %w", err)
	}

	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	records := []types.IssueRecord{}
	for {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, xerrors.Errorf("csv read error: %w", err)
		}

		line, _ := reader.FieldPos(0)
		record, err := parseRow(row{line: line, values: values, index: index})
		if err != nil {
			return nil, err
		}
		logger.Debug("Parsed row", log.Row(line), log.String("project", record.ProjectName))
		records = append(records, record)
	}

	return records, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		index[strings.TrimSpace(name)] = i
	}

	missing := lo.Filter(RequiredColumns, func(col string, _ int) bool {
		_, ok := index[col]
		return !ok
	})
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return index, nil
}

func parseRow(r row) (types.IssueRecord, error) {
	var (
		rec types.IssueRecord
		err error
	)

	if rec.SeverityRank, err = r.int(ColumnSeverityRank); err != nil {
		return types.IssueRecord{}, err
	} else if rec.SeverityRank < 1 {
		return types.IssueRecord{}, r.errorf(ColumnSeverityRank, "severity rank must be positive: %d", rec.SeverityRank)
	}

	severity, err := r.required(ColumnSeverity)
	if err != nil {
		return types.IssueRecord{}, err
	}
	rec.Severity = types.NormalizeSeverity(severity)

	if rec.Score, err = r.int(ColumnScore); err != nil {
		return types.IssueRecord{}, err
	}
	if rec.CVE, err = r.list(ColumnCVE); err != nil {
		return types.IssueRecord{}, err
	}
	if rec.CVEURL, err = r.list(ColumnCVEURL); err != nil {
		return types.IssueRecord{}, err
	}
	if rec.CWE, err = r.list(ColumnCWE); err != nil {
		return types.IssueRecord{}, err
	}
	if rec.ProjectName, err = r.required(ColumnProjectName); err != nil {
		return types.IssueRecord{}, err
	}
	if rec.FirstIntroduced, err = r.time(ColumnFirstIntroduced); err != nil {
		return types.IssueRecord{}, err
	}

	rec.ProblemTitle = r.get(ColumnProblemTitle)
	rec.ProjectURL = r.get(ColumnProjectURL)
	rec.ComputedFixability = r.get(ColumnFixability)
	rec.IssueURL = r.get(ColumnIssueURL)
	rec.IssueStatusIndicator = r.get(ColumnStatusIndicator)
	rec.IssueType = r.get(ColumnIssueType)
	rec.ExploitMaturity = r.optional(ColumnExploitMaturity)
	rec.ProductName = r.optional(ColumnProductName)

	return rec, nil
}
