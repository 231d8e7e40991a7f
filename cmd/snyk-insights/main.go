package main

import (
	"os"

	"github.com/aquasecurity/snyk-insights/pkg"
	"github.com/aquasecurity/snyk-insights/pkg/log"
)

var (
	version = "0.0.1"
)

func main() {
	ac := pkg.AppConfig{}
	if err := ac.Run(version, os.Args); err != nil {
		log.Error("Report generation failed", log.Err(err))
		os.Exit(1)
	}
}
