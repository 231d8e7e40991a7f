package pkg

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/aquasecurity/snyk-insights/pkg/metadata"
)

const issuesCSV = "loader/testdata/issues.csv"

func TestHoistFlags(t *testing.T) {
	app := AppConfig{}.NewApp("dev")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "flags before path",
			args: []string{"snyk-insights", "-o", "out.html", "issues.csv"},
			want: []string{"snyk-insights", "-o", "out.html", "--", "issues.csv"},
		},
		{
			name: "flags after path",
			args: []string{"snyk-insights", "issues.csv", "--group-by", "project", "-o", "out.html"},
			want: []string{"snyk-insights", "--group-by", "project", "-o", "out.html", "--", "issues.csv"},
		},
		{
			name: "bool and equals forms",
			args: []string{"snyk-insights", "issues.csv", "--debug", "--output-file=out.html"},
			want: []string{"snyk-insights", "--debug", "--output-file=out.html", "--", "issues.csv"},
		},
		{
			name: "double dash keeps the rest positional",
			args: []string{"snyk-insights", "--", "-odd-name.csv"},
			want: []string{"snyk-insights", "--", "-odd-name.csv"},
		},
		{
			name: "no arguments",
			args: []string{"snyk-insights"},
			want: []string{"snyk-insights"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hoistFlags(app.Flags, tt.args))
		})
	}
}

func TestAppConfig_Run(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		args       func(dir string) []string
		outputFile string
		wantHTML   []string
		wantStdout []string
	}{
		{
			name: "default grouping",
			args: func(dir string) []string {
				return []string{issuesCSV, "-o", filepath.Join(dir, "report.html")}
			},
			outputFile: "report.html",
			wantHTML: []string{
				"CVE-2023-1234 + CWE-79",
				"No CVE + CWE-200",
				"CVE-2021-44228 + CWE-502",
				"Snyk Security Issues Report",
			},
			wantStdout: []string{
				"Total issues: 3 in 3 groups (2 fixable)",
				"Critical: 1",
				"High: 1",
				"Medium: 0",
				"Low: 1",
			},
		},
		{
			name: "project grouping with title",
			args: func(dir string) []string {
				return []string{issuesCSV, "--group-by", "project", "--title", "ACME issues",
					"--output-file", filepath.Join(dir, "nested", "projects.html")}
			},
			outputFile: filepath.Join("nested", "projects.html"),
			wantHTML:   []string{"app-a", "app-b", "ACME issues"},
			wantStdout: []string{"Total issues: 3 in 2 groups (2 fixable)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			var stdout, stderr bytes.Buffer
			ac := AppConfig{
				Stdout: &stdout,
				Stderr: &stderr,
				Clock:  clocktesting.NewFakeClock(now),
			}

			err := ac.Run("dev", append([]string{"snyk-insights"}, tt.args(dir)...))
			require.NoError(t, err)

			got, err := os.ReadFile(filepath.Join(dir, tt.outputFile))
			require.NoError(t, err)
			for _, want := range tt.wantHTML {
				assert.Contains(t, string(got), want)
			}
			for _, want := range tt.wantStdout {
				assert.Contains(t, stdout.String(), want)
			}
		})
	}
}

func TestAppConfig_RunWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "report.yaml")
	summaryPath := filepath.Join(dir, "summary.json")
	outputPath := filepath.Join(dir, "flag.html")

	cfg := "output_file: " + filepath.Join(dir, "config.html") + "\n" +
		"group_by: project\n" +
		"summary_file: " + summaryPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	ac := AppConfig{
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
		Clock:  clocktesting.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	err := ac.Run("dev", []string{"snyk-insights", issuesCSV, "-c", cfgPath, "-o", outputPath})
	require.NoError(t, err)

	// the flag wins over the config file
	assert.FileExists(t, outputPath)
	assert.NoFileExists(t, filepath.Join(dir, "config.html"))

	meta, err := metadata.NewClient(summaryPath).Get()
	require.NoError(t, err)
	assert.Equal(t, "project", meta.GroupBy)
	assert.Equal(t, 3, meta.TotalIssues)
	assert.Equal(t, 2, meta.TotalGroups)
	assert.Equal(t, 2, meta.FixableCount)
}

func TestAppConfig_RunErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    func(dir string) []string
		wantErr string
	}{
		{
			name: "no csv argument",
			args: func(string) []string {
				return nil
			},
			wantErr: "expected exactly one CSV file argument, got 0",
		},
		{
			name: "too many arguments",
			args: func(string) []string {
				return []string{issuesCSV, issuesCSV}
			},
			wantErr: "expected exactly one CSV file argument, got 2",
		},
		{
			name: "missing csv file",
			args: func(dir string) []string {
				return []string{filepath.Join(dir, "missing.csv"), "-o", filepath.Join(dir, "out.html")}
			},
			wantErr: "file not found",
		},
		{
			name: "unknown grouping",
			args: func(dir string) []string {
				return []string{issuesCSV, "--group-by", "severity", "-o", filepath.Join(dir, "out.html")}
			},
			wantErr: `unknown group-by mode "severity"`,
		},
		{
			name: "missing config file",
			args: func(dir string) []string {
				return []string{issuesCSV, "--config", filepath.Join(dir, "missing.yaml")}
			},
			wantErr: "config file not found",
		},
		{
			name: "malformed csv",
			args: func(dir string) []string {
				return []string{"loader/testdata/malformed_cwe.csv", "-o", filepath.Join(dir, "out.html")}
			},
			wantErr: "malformed JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			ac := AppConfig{
				Stdout: &bytes.Buffer{},
				Stderr: &bytes.Buffer{},
			}
			err := ac.Run("dev", append([]string{"snyk-insights"}, tt.args(dir)...))
			require.ErrorContains(t, err, tt.wantErr)
			assert.NoFileExists(t, filepath.Join(dir, "out.html"))
		})
	}
}
