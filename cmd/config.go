package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/fzft/go-hashset/hashset"
)

var (
	HisFileEnv     = "HSETCLI_HISTFILE"
	HisFileDefault = ".hsetcli_history"
	ConfigFileEnv  = "HSETCLI_CONFIG"
)

// Config holds the shell settings. Precedence, lowest first: defaults, the
// yaml file, environment, flags.
type Config struct {
	Capacity   int     `yaml:"capacity"`
	LoadFactor float64 `yaml:"load_factor"`
	LogLevel   string  `yaml:"log_level"`
	HistFile   string  `yaml:"histfile"`
	Raw        bool    `yaml:"raw"`

	Version bool     `yaml:"-"`
	Args    []string `yaml:"-"` // one-shot command
}

func DefaultConfig() Config {
	return Config{
		Capacity:   hashset.DefaultCapacity,
		LoadFactor: hashset.DefaultLoadFactor,
		LogLevel:   "warn",
		HistFile:   getDotfilePath(HisFileEnv, HisFileDefault),
	}
}

// LoadConfig parses the command line. It returns pflag.ErrHelp when help
// was requested.
func LoadConfig(args []string) (Config, error) {
	cfg := DefaultConfig()

	fs := pflag.NewFlagSet("hsetcli", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	configPath := fs.String("config", os.Getenv(ConfigFileEnv), "path to a yaml config file")
	capacity := fs.Int("capacity", cfg.Capacity, "initial capacity of new sets")
	loadFactor := fs.Float64("load-factor", cfg.LoadFactor, "load factor of new sets, within [0.1, 1.0]")
	logLevel := fs.String("log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	histFile := fs.String("histfile", cfg.HistFile, "history file, /dev/null disables history")
	raw := fs.Bool("raw", false, "print replies in RESP3 wire format")
	version := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hsetcli [OPTIONS] [cmd [arg [arg ...]]]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *configPath != "" {
		if err := loadFile(*configPath, &cfg); err != nil {
			return cfg, err
		}
		if os.Getenv(HisFileEnv) != "" {
			cfg.HistFile = getDotfilePath(HisFileEnv, HisFileDefault)
		}
	}

	if fs.Changed("capacity") {
		cfg.Capacity = *capacity
	}
	if fs.Changed("load-factor") {
		cfg.LoadFactor = *loadFactor
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if fs.Changed("histfile") {
		cfg.HistFile = *histFile
	}
	if cfg.HistFile == "/dev/null" {
		cfg.HistFile = ""
	}
	cfg.Raw = cfg.Raw || *raw
	cfg.Version = *version
	cfg.Args = fs.Args()
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func getDotfilePath(envOverride, dotFilename string) string {
	var dotPath string

	path := os.Getenv(envOverride)
	if path != "" {
		if path == "/dev/null" {
			return ""
		}
		dotPath = path
	} else {
		home := os.Getenv("HOME")
		if home != "" {
			dotPath = fmt.Sprintf("%s/%s", home, dotFilename)
		}
	}
	return dotPath
}

func (cfg Config) setOptions() []hashset.Option {
	return []hashset.Option{
		hashset.WithCapacity(cfg.Capacity),
		hashset.WithLoadFactor(cfg.LoadFactor),
	}
}
