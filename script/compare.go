package main

import (
	"flag"
	"log"
	"reflect"

	"github.com/aquasecurity/snyk-insights/pkg/metadata"
)

var (
	oldSummaryFile = flag.String("old_file", "reports/old.json", "old report summary")
	newSummaryFile = flag.String("new_file", "reports/summary.json", "new report summary")
)

func main() {
	flag.Parse()
	oldMeta := readFile(*oldSummaryFile)
	newMeta := readFile(*newSummaryFile)

	if oldMeta.GroupBy != newMeta.GroupBy {
		log.Fatalf("summaries are grouped differently: %s vs %s", oldMeta.GroupBy, newMeta.GroupBy)
	}

	log.Printf("=== got %d issues in old summary and %d in new summary ===", oldMeta.TotalIssues, newMeta.TotalIssues)
	oldGroups, newGroups := groupsByKey(oldMeta), groupsByKey(newMeta)
	for key, oldGroup := range oldGroups {
		newGroup, ok := newGroups[key]
		if !ok {
			log.Printf("group %s does not exist in new summary (%d issues)", key, oldGroup.Total)
		} else if !reflect.DeepEqual(oldGroup, newGroup) {
			log.Printf("group %s is different: %d -> %d issues", key, oldGroup.Total, newGroup.Total)
		}
	}
	for key, newGroup := range newGroups {
		if _, ok := oldGroups[key]; !ok {
			log.Printf("group %s is new (%d issues)", key, newGroup.Total)
		}
	}
}

func readFile(file string) metadata.Metadata {
	meta, err := metadata.NewClient(file).Get()
	if err != nil {
		log.Fatalf("%+v", err)
	}
	return meta
}

func groupsByKey(meta metadata.Metadata) map[string]metadata.Group {
	groups := make(map[string]metadata.Group, len(meta.Groups))
	for _, g := range meta.Groups {
		groups[g.Key] = g
	}
	return groups
}
