package pkg

import (
	"io"
	"os"
	"strings"

	"github.com/urfave/cli"
	"k8s.io/utils/clock"

	"github.com/aquasecurity/snyk-insights/pkg/config"
	"github.com/aquasecurity/snyk-insights/pkg/group"
)

type AppConfig struct {
	Stdout io.Writer
	Stderr io.Writer
	Clock  clock.Clock
}

func (ac AppConfig) NewApp(version string) *cli.App {
	app := cli.NewApp()
	app.Name = "snyk-insights"
	app.Version = version
	app.ArgsUsage = "csv_file"

	app.Usage = "Generate an HTML report of Snyk security issues grouped by CVE-CWE pair or project"

	app.Writer = ac.stdout()
	app.ErrWriter = ac.stderr()

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "output-file, o",
			Usage:  "output HTML file path",
			Value:  config.DefaultOutputFile,
			EnvVar: "SNYK_INSIGHTS_OUTPUT_FILE",
		},
		cli.StringFlag{
			Name:   "group-by",
			Usage:  "group issues by " + strings.Join(group.ModeNames(), " or "),
			Value:  string(group.ModeCVECWE),
			EnvVar: "SNYK_INSIGHTS_GROUP_BY",
		},
		cli.StringFlag{
			Name:   "title",
			Usage:  "report title",
			EnvVar: "SNYK_INSIGHTS_TITLE",
		},
		cli.StringFlag{
			Name:   "summary-file",
			Usage:  "also write a JSON summary of the report to this path",
			EnvVar: "SNYK_INSIGHTS_SUMMARY_FILE",
		},
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "YAML or TOML file with report settings",
			EnvVar: "SNYK_INSIGHTS_CONFIG",
		},
		cli.BoolFlag{
			Name:   "debug, d",
			Usage:  "debug mode",
			EnvVar: "SNYK_INSIGHTS_DEBUG",
		},
	}
	app.Action = ac.generate

	return app
}

// Run parses args, which may carry flags after the CSV path, and runs the app.
func (ac AppConfig) Run(version string, args []string) error {
	app := ac.NewApp(version)
	return app.Run(hoistFlags(app.Flags, args))
}

func (ac AppConfig) stdout() io.Writer {
	if ac.Stdout == nil {
		return os.Stdout
	}
	return ac.Stdout
}

func (ac AppConfig) stderr() io.Writer {
	if ac.Stderr == nil {
		return os.Stderr
	}
	return ac.Stderr
}

func (ac AppConfig) clock() clock.Clock {
	if ac.Clock == nil {
		return clock.RealClock{}
	}
	return ac.Clock
}

// hoistFlags moves flags given after positional arguments in front of them.
// The root command stops parsing flags at the first positional argument,
// so "issues.csv -o out.html" would otherwise ignore "-o".
func hoistFlags(flags []cli.Flag, args []string) []string {
	if len(args) == 0 {
		return args
	}

	// help and version are appended by cli itself
	boolFlags := map[string]bool{"help": true, "h": true, "version": true, "v": true}
	for _, f := range flags {
		if bf, ok := f.(cli.BoolFlag); ok {
			for _, name := range strings.Split(bf.Name, ",") {
				boolFlags[strings.TrimSpace(name)] = true
			}
		}
	}

	var opts, positional []string
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch {
		case arg == "--":
			positional = append(positional, rest[i+1:]...)
			i = len(rest)
		case len(arg) > 1 && strings.HasPrefix(arg, "-"):
			opts = append(opts, arg)
			name := strings.TrimLeft(arg, "-")
			if strings.Contains(name, "=") || boolFlags[name] {
				continue
			}
			if i+1 < len(rest) {
				i++
				opts = append(opts, rest[i])
			}
		default:
			positional = append(positional, arg)
		}
	}

	out := append([]string{args[0]}, opts...)
	if len(positional) > 0 {
		out = append(out, "--")
		out = append(out, positional...)
	}
	return out
}
