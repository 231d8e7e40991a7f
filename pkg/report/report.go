// Package report renders grouped Snyk issues into a self-contained HTML report.
package report

import (
	"slices"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/aquasecurity/snyk-insights/pkg/group"
	"github.com/aquasecurity/snyk-insights/pkg/types"
)

const DefaultTitle = "Snyk Security Issues Report"

type SeverityCount = group.SeverityCount

// Report is the data handed to the HTML templates.
type Report struct {
	Title          string
	GeneratedAt    time.Time
	GroupBy        group.Mode
	TotalIssues    int
	TotalGroups    int
	FixableCount   int
	SeverityCounts map[string]int

	// Summary always lists Critical, High, Medium and Low, in that order.
	Summary []SeverityCount
	// Filters is Summary followed by any other labels present, such as "Informational".
	Filters []SeverityCount
	Groups  []group.Group
}

// Summarize counts issues per severity label across all records.
func Summarize(records []types.IssueRecord) map[string]int {
	counts := map[string]int{}
	for _, r := range records {
		counts[types.NormalizeSeverity(r.Severity)]++
	}
	return counts
}

func filters(summary []SeverityCount, counts map[string]int) []SeverityCount {
	known := lo.SliceToMap(summary, func(c SeverityCount) (string, bool) {
		return c.Severity, true
	})
	extra := lo.FilterMap(lo.Keys(counts), func(sev string, _ int) (SeverityCount, bool) {
		return SeverityCount{Severity: sev, Count: counts[sev]}, !known[sev]
	})
	sort.Slice(extra, func(i, j int) bool {
		if c := types.CompareSeverityString(extra[i].Severity, extra[j].Severity); c != 0 {
			return c < 0
		}
		return extra[i].Severity < extra[j].Severity
	})
	return append(slices.Clone(summary), extra...)
}

// NewReport groups records by mode and computes the report totals.
func NewReport(records []types.IssueRecord, mode group.Mode, title string, now time.Time) (Report, error) {
	groups, err := group.Build(records, mode)
	if err != nil {
		return Report{}, err
	}

	counts := Summarize(records)
	summary := lo.Map(types.SummarySeverities, func(s types.Severity, _ int) SeverityCount {
		return SeverityCount{Severity: s.String(), Count: counts[s.String()]}
	})
	return Report{
		Title:          lo.Ternary(title == "", DefaultTitle, title),
		GeneratedAt:    now,
		GroupBy:        mode,
		TotalIssues:    len(records),
		TotalGroups:    len(groups),
		FixableCount:   lo.CountBy(records, types.IssueRecord.Fixable),
		SeverityCounts: counts,
		Summary:        summary,
		Filters:        filters(summary, counts),
		Groups:         groups,
	}, nil
}
