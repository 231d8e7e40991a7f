package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var (
	SeverityNames = []string{
		"Unknown",
		"Low",
		"Medium",
		"High",
		"Critical",
	}
	SeverityColor = []func(a ...interface{}) string{
		color.New(color.FgCyan).SprintFunc(),
		color.New(color.FgBlue).SprintFunc(),
		color.New(color.FgYellow).SprintFunc(),
		color.New(color.FgHiRed).SprintFunc(),
		color.New(color.FgRed).SprintFunc(),
	}

	// SummarySeverities is the fixed order of the report's severity summary.
	SummarySeverities = []Severity{
		SeverityCritical,
		SeverityHigh,
		SeverityMedium,
		SeverityLow,
	}
)

// NormalizeSeverity turns labels such as "HIGH" or " high" into "High".
func NormalizeSeverity(label string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(label)))
}

func NewSeverity(severity string) (Severity, error) {
	severity = NormalizeSeverity(severity)
	for i, name := range SeverityNames {
		if severity == name {
			return Severity(i), nil
		}
	}
	return SeverityUnknown, fmt.Errorf("unknown severity: %s", severity)
}

func CompareSeverityString(sev1, sev2 string) int {
	s1, _ := NewSeverity(sev1)
	s2, _ := NewSeverity(sev2)
	return int(s2) - int(s1)
}

func ColorizeSeverity(severity string) string {
	if s, err := NewSeverity(severity); err == nil {
		return SeverityColor[s](severity)
	}
	return color.New(color.FgBlue).SprintFunc()(severity)
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(SeverityNames) {
		return SeverityNames[SeverityUnknown]
	}
	return SeverityNames[s]
}

// IssueRecord is a single row of a Snyk issues export.
type IssueRecord struct {
	SeverityRank         int        `json:"issue_severity_rank"`
	Severity             string     `json:"issue_severity"`
	Score                int        `json:"score"`
	ProblemTitle         string     `json:"problem_title"`
	CVE                  []string   `json:"cve"`
	CVEURL               []string   `json:"cve_url"`
	CWE                  []string   `json:"cwe"`
	ProjectName          string     `json:"project_name"`
	ProjectURL           string     `json:"project_url"`
	ExploitMaturity      *string    `json:"exploit_maturity,omitempty"`
	ComputedFixability   string     `json:"computed_fixability"`
	FirstIntroduced      *time.Time `json:"first_introduced,omitempty"`
	ProductName          *string    `json:"product_name,omitempty"`
	IssueURL             string     `json:"issue_url"`
	IssueStatusIndicator string     `json:"issue_status_indicator"`
	IssueType            string     `json:"issue_type"`
}

// FirstCVE returns the first CVE identifier, or an empty string.
func (r IssueRecord) FirstCVE() string {
	if len(r.CVE) == 0 {
		return ""
	}
	return r.CVE[0]
}

// FirstCWE returns the first CWE identifier, or an empty string.
func (r IssueRecord) FirstCWE() string {
	if len(r.CWE) == 0 {
		return ""
	}
	return r.CWE[0]
}

func (r IssueRecord) Fixable() bool {
	return NewFixability(r.ComputedFixability) == FixabilityFixable
}
