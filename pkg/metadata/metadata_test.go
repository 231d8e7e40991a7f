package metadata_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/snyk-insights/pkg/group"
	"github.com/aquasecurity/snyk-insights/pkg/metadata"
	"github.com/aquasecurity/snyk-insights/pkg/report"
	"github.com/aquasecurity/snyk-insights/pkg/types"
)

func TestClient_UpdateAndGet(t *testing.T) {
	generatedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []types.IssueRecord{
		{SeverityRank: 3, Severity: "High", ProjectName: "app-a", ComputedFixability: "Fixable"},
		{SeverityRank: 1, Severity: "Low", ProjectName: "app-a"},
	}
	r, err := report.NewReport(records, group.ModeProject, "", generatedAt)
	require.NoError(t, err)

	want := metadata.Metadata{
		GeneratedAt:    generatedAt,
		GroupBy:        "project",
		TotalIssues:    2,
		TotalGroups:    1,
		FixableCount:   1,
		SeverityCounts: map[string]int{"High": 1, "Low": 1},
		Groups: []metadata.Group{
			{
				Key:            "app-a",
				Total:          2,
				FixableCount:   1,
				SeverityCounts: map[string]int{"High": 1, "Low": 1},
			},
		},
	}
	assert.Equal(t, want, metadata.FromReport(r))

	c := metadata.NewClient(filepath.Join(t.TempDir(), "summary", "report.json"))
	require.NoError(t, c.Update(metadata.FromReport(r)))

	got, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClient_GetMissingFile(t *testing.T) {
	c := metadata.NewClient(filepath.Join(t.TempDir(), "missing.json"))
	_, err := c.Get()
	require.ErrorContains(t, err, "file open error")
}
