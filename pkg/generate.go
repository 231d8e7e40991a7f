package pkg

import (
	"fmt"
	"io"

	"github.com/urfave/cli"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/snyk-insights/pkg/config"
	"github.com/aquasecurity/snyk-insights/pkg/loader"
	"github.com/aquasecurity/snyk-insights/pkg/log"
	"github.com/aquasecurity/snyk-insights/pkg/metadata"
	"github.com/aquasecurity/snyk-insights/pkg/report"
	"github.com/aquasecurity/snyk-insights/pkg/types"
	"github.com/aquasecurity/snyk-insights/pkg/utils"
)

func (ac AppConfig) generate(c *cli.Context) error {
	log.InitLogger(ac.stderr(), c.Bool("debug"))

	if c.NArg() != 1 {
		_ = cli.ShowAppHelp(c)
		return xerrors.Errorf("expected exactly one CSV file argument, got %d", c.NArg())
	}
	csvPath := c.Args().First()

	cfg, err := resolveConfig(c)
	if err != nil {
		return xerrors.Errorf("config error: %w", err)
	}
	log.Debug("Resolved settings", "config", cfg)

	records, err := loader.Load(csvPath)
	if err != nil {
		return xerrors.Errorf("failed to load issues: %w", err)
	}
	if len(records) == 0 {
		log.Warn("No issues found in CSV file", log.FilePath(csvPath))
	}

	g, err := report.NewGenerator(report.WithTitle(cfg.Title), report.WithClock(ac.clock()))
	if err != nil {
		return xerrors.Errorf("report generator error: %w", err)
	}

	r, err := g.GenerateToFile(records, cfg.OutputFile, cfg.Mode())
	if err != nil {
		return xerrors.Errorf("failed to generate report: %w", err)
	}

	if cfg.SummaryFile != "" {
		if err = metadata.NewClient(cfg.SummaryFile).Update(metadata.FromReport(r)); err != nil {
			return xerrors.Errorf("failed to write summary: %w", err)
		}
		log.Info("Wrote report summary", log.FilePath(cfg.SummaryFile))
	}

	printSummary(ac.stdout(), r, cfg.OutputFile)
	return nil
}

// resolveConfig layers defaults, the optional config file and explicit flags.
func resolveConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		if ok, err := utils.Exists(path); err != nil {
			return config.Config{}, err
		} else if !ok {
			return config.Config{}, xerrors.Errorf("config file not found: %s", path)
		}

		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if c.IsSet("output-file") {
		cfg.OutputFile = c.String("output-file")
	}
	if c.IsSet("group-by") {
		cfg.GroupBy = c.String("group-by")
	}
	if c.IsSet("title") {
		cfg.Title = c.String("title")
	}
	if c.IsSet("summary-file") {
		cfg.SummaryFile = c.String("summary-file")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func printSummary(w io.Writer, r report.Report, outputFile string) {
	fmt.Fprintf(w, "Report generated: %s\n", outputFile)
	fmt.Fprintf(w, "Total issues: %d in %d groups (%d fixable)\n", r.TotalIssues, r.TotalGroups, r.FixableCount)
	for _, sc := range r.Summary {
		fmt.Fprintf(w, "  %s: %d\n", types.ColorizeSeverity(sc.Severity), sc.Count)
	}
	if n := r.SeverityCounts[types.SeverityUnknown.String()]; n > 0 {
		fmt.Fprintf(w, "  %s: %d\n", types.ColorizeSeverity(types.SeverityUnknown.String()), n)
	}
}
