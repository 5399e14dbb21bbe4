// Package config loads peano.toml, the per-project settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest looked up by Find.
const FileName = "peano.toml"

type Check struct {
	HardcodedImpls bool `toml:"hardcoded_impls"`
	MaxDiagnostics int  `toml:"max_diagnostics"`
	// Jobs <= 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
}

type Exercise struct {
	Var  string `toml:"var"`
	Type string `toml:"type"`
}

type Cache struct {
	Enabled bool `toml:"enabled"`
	// Dir defaults to $XDG_CACHE_HOME/peano.
	Dir string `toml:"dir"`
}

type Log struct {
	Level   string `toml:"level"`
	File    string `toml:"file"`
	Journal bool   `toml:"journal"`
}

// Config is the decoded manifest with defaults filled in.
type Config struct {
	Check    Check    `toml:"check"`
	Exercise Exercise `toml:"exercise"`
	Cache    Cache    `toml:"cache"`
	Log      Log      `toml:"log"`

	// Path is the manifest the config came from; empty for Default().
	Path string `toml:"-"`
}

// Default is the configuration used without a manifest.
func Default() Config {
	return Config{
		Check: Check{MaxDiagnostics: 100},
		Cache: Cache{Enabled: true},
		Log:   Log{Level: "warn"},
	}
}

// HasExercise reports whether both exercise fields are set.
func (c Config) HasExercise() bool {
	return c.Exercise.Var != "" && c.Exercise.Type != ""
}

// Warning is a non-fatal manifest problem.
type Warning struct {
	Path string
	Key  string
	Msg  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Path, w.Key, w.Msg)
}

var (
	// ErrExerciseIncomplete is returned when only one of exercise.var and
	// exercise.type is set.
	ErrExerciseIncomplete = errors.New("[exercise] needs both var and type")
	ErrBadMaxDiagnostics  = errors.New("[check].max_diagnostics must be positive")
)

// Load decodes path over the defaults. Keys the manifest does not know are
// returned as warnings.
func Load(path string) (Config, []Warning, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Default(), nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path

	var warnings []Warning
	for _, key := range meta.Undecoded() {
		warnings = append(warnings, Warning{Path: path, Key: key.String(), Msg: "unknown key"})
	}
	if meta.IsDefined("check", "max_diagnostics") && cfg.Check.MaxDiagnostics <= 0 {
		return Default(), warnings, fmt.Errorf("%s: %w", path, ErrBadMaxDiagnostics)
	}
	cfg.Exercise.Var = strings.TrimSpace(cfg.Exercise.Var)
	cfg.Exercise.Type = strings.TrimSpace(cfg.Exercise.Type)
	if (cfg.Exercise.Var == "") != (cfg.Exercise.Type == "") {
		return Default(), warnings, fmt.Errorf("%s: %w", path, ErrExerciseIncomplete)
	}
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	return cfg, warnings, nil
}

// Find walks up from startDir to locate peano.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the manifest above startDir, or returns the defaults when
// there is none.
func Discover(startDir string) (Config, []Warning, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Default(), nil, err
	}
	if !ok {
		return Default(), nil, nil
	}
	return Load(path)
}

// DefaultManifest is the file written by `peano init`.
const DefaultManifest = `# PeanoScript project settings.

[check]
hardcoded_impls = false
max_diagnostics = 100
jobs = 0           # 0 = GOMAXPROCS

# [exercise]
# var = "zeroOrNot"
# type = "(x: N) => x == 0 || x != 0"

[cache]
enabled = true
dir = ""           # default $XDG_CACHE_HOME/peano

[log]
level = "warn"
file = ""
journal = false
`

// ErrExists is returned by WriteDefault when the manifest is already there.
var ErrExists = errors.New("already initialized")

// WriteDefault creates dir/peano.toml with DefaultManifest.
func WriteDefault(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return path, fmt.Errorf("%s: %w", path, ErrExists)
		}
		return "", err
	}
	if _, err := f.WriteString(DefaultManifest); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}
