package metadata

import (
	"encoding/json"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/aquasecurity/snyk-insights/pkg/group"
	"github.com/aquasecurity/snyk-insights/pkg/report"
	"github.com/aquasecurity/snyk-insights/pkg/utils"
)

// Metadata is the machine-readable summary written next to an HTML report.
type Metadata struct {
	GeneratedAt    time.Time
	GroupBy        string
	TotalIssues    int
	TotalGroups    int
	FixableCount   int
	SeverityCounts map[string]int
	Groups         []Group `json:",omitempty"`
}

type Group struct {
	Key            string
	Total          int
	FixableCount   int
	SeverityCounts map[string]int
}

// FromReport converts a rendered report into its summary.
func FromReport(r report.Report) Metadata {
	return Metadata{
		GeneratedAt:    r.GeneratedAt,
		GroupBy:        string(r.GroupBy),
		TotalIssues:    r.TotalIssues,
		TotalGroups:    r.TotalGroups,
		FixableCount:   r.FixableCount,
		SeverityCounts: r.SeverityCounts,
		Groups: lo.Map(r.Groups, func(g group.Group, _ int) Group {
			return Group{
				Key:            g.Key.String(),
				Total:          g.Total,
				FixableCount:   g.FixableCount,
				SeverityCounts: g.SeverityCounts,
			}
		}),
	}
}

// Client reads and writes a summary file
type Client struct {
	filePath string
}

// NewClient is the factory method for the metadata Client
func NewClient(filePath string) Client {
	return Client{
		filePath: filePath,
	}
}

// Get returns the summary stored in the file
func (c Client) Get() (Metadata, error) {
	eb := oops.With("file_path", c.filePath)

	f, err := os.Open(c.filePath)
	if err != nil {
		return Metadata{}, eb.Wrapf(err, "file open error")
	}
	defer f.Close()

	var metadata Metadata
	if err = json.NewDecoder(f).Decode(&metadata); err != nil {
		return Metadata{}, eb.Wrapf(err, "json decode error")
	}
	return metadata, nil
}

func (c Client) Update(meta Metadata) error {
	eb := oops.With("file_path", c.filePath)

	f, err := utils.CreateFile(c.filePath)
	if err != nil {
		return eb.Wrapf(err, "summary file error")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err = enc.Encode(&meta); err != nil {
		return eb.Wrapf(err, "json encode error")
	}
	return nil
}
