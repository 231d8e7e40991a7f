package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/snyk-insights/pkg/config"
	"github.com/aquasecurity/snyk-insights/pkg/group"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		want    config.Config
		wantErr string
	}{
		{
			name: "yaml",
			path: "testdata/report.yaml",
			want: config.Config{
				OutputFile: "reports/acme.html",
				GroupBy:    "project",
				Title:      "ACME weekly issues",
			},
		},
		{
			name: "toml",
			path: "testdata/report.toml",
			want: config.Config{
				OutputFile:  "reports/acme.html",
				GroupBy:     "project",
				SummaryFile: "reports/acme.json",
			},
		},
		{
			name:    "invalid mode",
			path:    "testdata/bad_mode.yaml",
			wantErr: `unknown group-by mode "severity"`,
		},
		{
			name:    "unknown toml key",
			path:    "testdata/unknown_key.toml",
			wantErr: "unknown config keys",
		},
		{
			name:    "unsupported extension",
			path:    "testdata/report.json",
			wantErr: "unsupported config format",
		},
		{
			name:    "missing file",
			path:    "testdata/missing.yaml",
			wantErr: "config read error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := config.Load(tt.path)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, group.ModeProject, got.Mode())
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "snyk_report.html", cfg.OutputFile)
	assert.Equal(t, group.ModeCVECWE, cfg.Mode())
}
