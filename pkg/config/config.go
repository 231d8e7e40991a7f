package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/oops"
	"gopkg.in/yaml.v2"

	"github.com/aquasecurity/snyk-insights/pkg/group"
)

const DefaultOutputFile = "snyk_report.html"

// Config holds the report settings. Any of them can come from a config file
// and be overridden on the command line.
type Config struct {
	OutputFile  string `yaml:"output_file" toml:"output_file"`
	GroupBy     string `yaml:"group_by" toml:"group_by"`
	Title       string `yaml:"title" toml:"title"`
	SummaryFile string `yaml:"summary_file" toml:"summary_file"`
}

func Default() Config {
	return Config{
		OutputFile: DefaultOutputFile,
		GroupBy:    string(group.ModeCVECWE),
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file on top of the defaults.
func Load(path string) (Config, error) {
	eb := oops.In("config").With("config_file", path)
	cfg := Default()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, eb.Wrapf(err, "config read error")
		}
		if err = yaml.UnmarshalStrict(b, &cfg); err != nil {
			return Config{}, eb.Wrapf(err, "yaml decode error")
		}
	case ".toml":
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, eb.Wrapf(err, "toml decode error")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, eb.With("keys", undecoded).Errorf("unknown config keys")
		}
	default:
		return Config{}, eb.With("extension", ext).Errorf("unsupported config format")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, eb.Wrapf(err, "invalid config")
	}
	return cfg, nil
}

func (c Config) Mode() group.Mode {
	return group.Mode(c.GroupBy)
}

func (c Config) Validate() error {
	if c.OutputFile == "" {
		return oops.Errorf("output file must not be empty")
	}
	if _, err := group.ParseMode(c.GroupBy); err != nil {
		return err
	}
	return nil
}

// LogValue returns structured log value
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("output_file", c.OutputFile),
		slog.String("group_by", c.GroupBy),
		slog.String("title", c.Title),
		slog.String("summary_file", c.SummaryFile),
	)
}
