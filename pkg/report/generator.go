package report

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/samber/lo"
	"golang.org/x/xerrors"
	"k8s.io/utils/clock"

	"github.com/aquasecurity/snyk-insights/pkg/group"
	"github.com/aquasecurity/snyk-insights/pkg/log"
	"github.com/aquasecurity/snyk-insights/pkg/types"
	"github.com/aquasecurity/snyk-insights/pkg/utils"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutTemplate = "templates/layout.html"

// TemplateNames maps each grouping mode to its page template.
var TemplateNames = map[group.Mode]string{
	group.ModeCVECWE:  "report_cve_cwe.html",
	group.ModeProject: "report_project.html",
}

type Generator struct {
	templates map[group.Mode]*template.Template
	title     string
	clock     clock.Clock
}

type Option func(*Generator)

func WithClock(clock clock.Clock) Option {
	return func(g *Generator) {
		g.clock = clock
	}
}

func WithTitle(title string) Option {
	return func(g *Generator) {
		g.title = title
	}
}

func funcMap() template.FuncMap {
	funcs := sprig.HtmlFuncMap()
	funcs["pct"] = func(part, total int) int {
		if total <= 0 {
			return 0
		}
		return int(float64(part) / float64(total) * 100.0)
	}
	funcs["deref"] = func(s *string) string {
		return lo.FromPtr(s)
	}
	funcs["severityValue"] = severityValue
	funcs["severityList"] = func(g group.Group) string {
		return strings.Join(lo.Map(g.SeverityBreakdown(), func(c group.SeverityCount, _ int) string {
			return severityValue(c.Severity)
		}), " ")
	}
	return funcs
}

// severityValue is the filter token of a severity label, e.g. "Very High" -> "very-high".
func severityValue(severity string) string {
	return strings.Join(strings.Fields(strings.ToLower(severity)), "-")
}

// NewGenerator parses the embedded templates.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		templates: map[group.Mode]*template.Template{},
		title:     DefaultTitle,
		clock:     clock.RealClock{},
	}
	for _, opt := range opts {
		opt(g)
	}

	for mode, name := range TemplateNames {
		tmpl, err := template.New(name).Funcs(funcMap()).ParseFS(templatesFS, layoutTemplate, "templates/"+name)
		if err != nil {
			return nil, xerrors.Errorf("failed to parse template %s: %w", name, err)
		}
		g.templates[mode] = tmpl
	}
	return g, nil
}

// Generate renders the report for records grouped by mode into w.
func (g *Generator) Generate(w io.Writer, records []types.IssueRecord, mode group.Mode) (Report, error) {
	if _, err := group.ParseMode(string(mode)); err != nil {
		return Report{}, err
	}
	tmpl := g.templates[mode]

	r, err := NewReport(records, mode, g.title, g.clock.Now())
	if err != nil {
		return Report{}, xerrors.Errorf("failed to build report: %w", err)
	}

	var buf bytes.Buffer
	if err = tmpl.ExecuteTemplate(&buf, "layout", r); err != nil {
		return Report{}, xerrors.Errorf("failed to execute template: %w", err)
	}
	if _, err = buf.WriteTo(w); err != nil {
		return Report{}, xerrors.Errorf("failed to write report: %w", err)
	}
	return r, nil
}

// GenerateToFile renders the report into outputPath, replacing any existing file.
func (g *Generator) GenerateToFile(records []types.IssueRecord, outputPath string, mode group.Mode) (Report, error) {
	var buf bytes.Buffer
	r, err := g.Generate(&buf, records, mode)
	if err != nil {
		return Report{}, err
	}

	f, err := utils.CreateFile(outputPath)
	if err != nil {
		return Report{}, xerrors.Errorf("failed to create report file: %w", err)
	}
	if _, err = buf.WriteTo(f); err != nil {
		_ = f.Close()
		return Report{}, xerrors.Errorf("failed to write report file %s: %w", outputPath, err)
	}
	if err = f.Close(); err != nil {
		return Report{}, xerrors.Errorf("failed to close report file %s: %w", outputPath, err)
	}

	log.Info("Generated HTML report", log.FilePath(outputPath), log.Mode(string(mode)),
		log.Int("groups", r.TotalGroups))
	return r, nil
}

// Generate writes an HTML report of records grouped by mode to outputPath.
func Generate(records []types.IssueRecord, outputPath string, mode group.Mode) error {
	g, err := NewGenerator()
	if err != nil {
		return err
	}
	_, err = g.GenerateToFile(records, outputPath, mode)
	return err
}
