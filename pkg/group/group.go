package group

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/snyk-insights/pkg/set"
	"github.com/aquasecurity/snyk-insights/pkg/types"
)

type Mode string

const (
	ModeCVECWE  Mode = "cve-cwe"
	ModeProject Mode = "project"
)

// Modes lists the supported grouping modes, default first.
var Modes = []Mode{
	ModeCVECWE,
	ModeProject,
}

const (
	NoCVE = "No CVE"
	NoCWE = "No CWE"
)

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", xerrors.Errorf("unknown group-by mode %q (expected one of %s)", s, strings.Join(ModeNames(), ", "))
}

func ModeNames() []string {
	return lo.Map(Modes, func(m Mode, _ int) string {
		return string(m)
	})
}

// Key identifies a group. In cve-cwe mode CVE and CWE hold the first identifiers of a record,
// and Title is only set when both are empty. In project mode only Project is set.
type Key struct {
	CVE     string
	CWE     string
	Title   string
	Project string
}

func (k Key) String() string {
	if k.Project != "" {
		return k.Project
	}
	s := Pair(k.CVE, k.CWE)
	if k.Title != "" {
		s += ": " + k.Title
	}
	return s
}

func (k Key) less(o Key) bool {
	if k.Project != o.Project {
		return k.Project < o.Project
	}
	if k.CVE != o.CVE {
		return k.CVE < o.CVE
	}
	if k.CWE != o.CWE {
		return k.CWE < o.CWE
	}
	return k.Title < o.Title
}

// Pair renders a CVE-CWE pair, substituting placeholders for missing identifiers.
func Pair(cve, cwe string) string {
	return fmt.Sprintf("%s + %s", lo.Ternary(cve == "", NoCVE, cve), lo.Ternary(cwe == "", NoCWE, cwe))
}

type Project struct {
	Name string
	URL  string
}

type SeverityCount struct {
	Severity string
	Count    int
}

type Group struct {
	Key            Key
	Issues         []types.IssueRecord
	SeverityCounts map[string]int
	Total          int
	FixableCount   int
	MinScore       int
	MaxScore       int
	HighestRank    int
	ProblemTitles  []string

	// cve-cwe mode
	Projects []Project

	// project mode
	ProjectURL string
	Pairs      []string
}

// Count returns the number of issues with the given severity label.
func (g Group) Count(severity string) int {
	return g.SeverityCounts[types.NormalizeSeverity(severity)]
}

// SeverityBreakdown returns the non-zero severity counts, most severe first.
func (g Group) SeverityBreakdown() []SeverityCount {
	counts := lo.MapToSlice(g.SeverityCounts, func(sev string, n int) SeverityCount {
		return SeverityCount{Severity: sev, Count: n}
	})
	sort.Slice(counts, func(i, j int) bool {
		if c := types.CompareSeverityString(counts[i].Severity, counts[j].Severity); c != 0 {
			return c < 0
		}
		return counts[i].Severity < counts[j].Severity
	})
	return counts
}

// HighestSeverity returns the label of the most severe issue in the group.
func (g Group) HighestSeverity() string {
	breakdown := g.SeverityBreakdown()
	if len(breakdown) == 0 {
		return types.SeverityUnknown.String()
	}
	return breakdown[0].Severity
}

type builder struct {
	group    Group
	titles   set.Ordered[string]
	pairs    set.Ordered[string]
	projects map[string]string
}

func newBuilder(key Key) *builder {
	return &builder{
		group: Group{
			Key:            key,
			SeverityCounts: map[string]int{},
		},
		titles:   set.NewOrdered[string](),
		pairs:    set.NewOrdered[string](),
		projects: map[string]string{},
	}
}

func (b *builder) add(r types.IssueRecord) {
	g := &b.group
	if g.Total == 0 || r.Score < g.MinScore {
		g.MinScore = r.Score
	}
	if g.Total == 0 || r.Score > g.MaxScore {
		g.MaxScore = r.Score
	}
	g.HighestRank = max(g.HighestRank, r.SeverityRank)
	g.Total++
	g.Issues = append(g.Issues, r)
	g.SeverityCounts[types.NormalizeSeverity(r.Severity)]++
	if r.Fixable() {
		g.FixableCount++
	}

	if r.ProblemTitle != "" {
		b.titles.Append(r.ProblemTitle)
	}
	if _, ok := b.projects[r.ProjectName]; !ok {
		b.projects[r.ProjectName] = r.ProjectURL
	}
	for _, cve := range orNone(r.CVE) {
		for _, cwe := range orNone(r.CWE) {
			b.pairs.Append(Pair(cve, cwe))
		}
	}
}

func orNone(ids []string) []string {
	return lo.Ternary(len(ids) == 0, []string{""}, ids)
}

func (b *builder) build(mode Mode) Group {
	g := b.group
	g.ProblemTitles = b.titles.Values()

	switch mode {
	case ModeProject:
		g.ProjectURL = b.projects[g.Key.Project]
		g.Pairs = b.pairs.Values()
	default:
		names := lo.Keys(b.projects)
		sort.Strings(names)
		g.Projects = lo.Map(names, func(name string, _ int) Project {
			return Project{Name: name, URL: b.projects[name]}
		})
	}
	return g
}

// KeyOf returns the group key of a record for mode.
func KeyOf(r types.IssueRecord, mode Mode) Key {
	if mode == ModeProject {
		return Key{Project: r.ProjectName}
	}

	key := Key{CVE: r.FirstCVE(), CWE: r.FirstCWE()}
	if key.CVE == "" && key.CWE == "" {
		// keep findings without identifiers apart from each other
		key.Title = r.ProblemTitle
	}
	return key
}

// Build partitions records into groups, most critical first: by descending highest
// severity rank, then descending issue count, then ascending key.
func Build(records []types.IssueRecord, mode Mode) ([]Group, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	builders := map[Key]*builder{}
	for _, r := range records {
		key := KeyOf(r, mode)
		b, ok := builders[key]
		if !ok {
			b = newBuilder(key)
			builders[key] = b
		}
		b.add(r)
	}

	groups := lo.MapToSlice(builders, func(_ Key, b *builder) Group {
		return b.build(mode)
	})
	sort.Slice(groups, func(i, j int) bool {
		gi, gj := groups[i], groups[j]
		if gi.HighestRank != gj.HighestRank {
			return gi.HighestRank > gj.HighestRank
		}
		if gi.Total != gj.Total {
			return gi.Total > gj.Total
		}
		return gi.Key.less(gj.Key)
	})
	return groups, nil
}
