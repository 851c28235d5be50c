// Package config loads runtime settings from defaults, an optional YAML file and flags,
// in that order of precedence (flags win).
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/jaminalder/codex-gomoku/internal/domain"
)

var ErrInvalid = errors.New("invalid config")

const (
	ModeWeb = "web"
	ModeTUI = "tui"
)

type Config struct {
	Addr       string        `yaml:"addr"`
	Mode       string        `yaml:"mode"`
	BoardSize  int           `yaml:"board_size"`
	WinLength  int           `yaml:"win_length"`
	Seed       int64         `yaml:"seed"`
	HumanFirst bool          `yaml:"human_first"`
	LogLevel   string        `yaml:"log_level"`
	LogFormat  string        `yaml:"log_format"`
	Heartbeat  time.Duration `yaml:"heartbeat"`
}

func Default() Config {
	return Config{
		Addr:       ":8080",
		Mode:       ModeWeb,
		BoardSize:  domain.DefaultSize,
		WinLength:  domain.DefaultWinLength,
		HumanFirst: true,
		LogLevel:   "info",
		LogFormat:  "json",
		Heartbeat:  15 * time.Second,
	}
}

// Load overlays the YAML file at path onto the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	if err := decode(f, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Parse reads flags from args. A -config file is loaded first; flags given explicitly on
// the command line override it.
func Parse(name string, args []string) (Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	def := Default()
	var (
		path = fs.String("config", "", "YAML config file")
		cfg  Config
	)
	fs.StringVar(&cfg.Addr, "addr", def.Addr, "HTTP listen address")
	fs.StringVar(&cfg.Mode, "mode", def.Mode, "front-end: web or tui")
	fs.IntVar(&cfg.BoardSize, "size", def.BoardSize, "board side length")
	fs.IntVar(&cfg.WinLength, "win", def.WinLength, "marks in a row needed to win")
	fs.Int64Var(&cfg.Seed, "seed", def.Seed, "random seed, 0 picks one")
	fs.BoolVar(&cfg.HumanFirst, "human-first", def.HumanFirst, "human opens the first round")
	fs.StringVar(&cfg.LogLevel, "log-level", def.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", def.LogFormat, "json or console")
	fs.DurationVar(&cfg.Heartbeat, "heartbeat", def.Heartbeat, "SSE keep-alive interval")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(os.Stderr)
			fs.PrintDefaults()
			return Config{}, err
		}
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if *path != "" {
		fromFile, err := Load(*path)
		if err != nil {
			return Config{}, err
		}
		flagged := cfg
		cfg = fromFile
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "addr":
				cfg.Addr = flagged.Addr
			case "mode":
				cfg.Mode = flagged.Mode
			case "size":
				cfg.BoardSize = flagged.BoardSize
			case "win":
				cfg.WinLength = flagged.WinLength
			case "seed":
				cfg.Seed = flagged.Seed
			case "human-first":
				cfg.HumanFirst = flagged.HumanFirst
			case "log-level":
				cfg.LogLevel = flagged.LogLevel
			case "log-format":
				cfg.LogFormat = flagged.LogFormat
			case "heartbeat":
				cfg.Heartbeat = flagged.Heartbeat
			}
		})
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var problems []string
	if c.WinLength < 1 {
		problems = append(problems, fmt.Sprintf("win length %d < 1", c.WinLength))
	}
	if c.BoardSize < c.WinLength {
		problems = append(problems, fmt.Sprintf("board size %d < win length %d", c.BoardSize, c.WinLength))
	}
	switch c.Mode {
	case ModeWeb, ModeTUI:
	default:
		problems = append(problems, fmt.Sprintf("unknown mode %q", c.Mode))
	}
	if _, err := zapcore.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("unknown log format %q", c.LogFormat))
	}
	if c.Mode == ModeWeb && c.Addr == "" {
		problems = append(problems, "empty listen address")
	}
	if c.Heartbeat <= 0 {
		problems = append(problems, "heartbeat must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
