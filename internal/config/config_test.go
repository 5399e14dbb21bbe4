package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, FileName)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefaultManifestDecodesToDefaults(t *testing.T) {
	p := write(t, t.TempDir(), DefaultManifest)
	cfg, warnings, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	want := Default()
	want.Path = p
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, `
[check]
hardcoded_impls = true
jobs = 3

[exercise]
var = "zeroOrNot"
type = "(x: N) => x == 0 || x != 0"

[cache]
dir = "cache"

[log]
level = "debug"
colour = "on"
`)
	cfg, warnings, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Check.HardcodedImpls || cfg.Check.Jobs != 3 || cfg.Check.MaxDiagnostics != 100 {
		t.Errorf("check = %+v", cfg.Check)
	}
	if !cfg.HasExercise() || cfg.Exercise.Var != "zeroOrNot" {
		t.Errorf("exercise = %+v", cfg.Exercise)
	}
	if cfg.Cache.Dir != filepath.Join(dir, "cache") || !cfg.Cache.Enabled {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if len(warnings) != 1 || warnings[0].Key != "log.colour" {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		target  error
	}{
		{"half exercise", "[exercise]\nvar = \"f\"\n", ErrExerciseIncomplete},
		{"zero limit", "[check]\nmax_diagnostics = 0\n", ErrBadMaxDiagnostics},
		{"syntax", "[check\n", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Load(write(t, t.TempDir(), tc.content))
			if err == nil {
				t.Fatal("no error")
			}
			if tc.target != nil && !errors.Is(err, tc.target) {
				t.Errorf("err = %v, want %v", err, tc.target)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	p := write(t, root, DefaultManifest)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: %v %v", ok, err)
	}
	if got != p {
		t.Errorf("found %s, want %s", got, p)
	}

	cfg, _, err := Discover(nested)
	if err != nil || cfg.Path != p {
		t.Errorf("Discover: %+v %v", cfg, err)
	}
}

func TestDiscoverWithoutManifest(t *testing.T) {
	cfg, warnings, err := Discover(t.TempDir())
	if err != nil || len(warnings) != 0 {
		t.Fatalf("Discover: %v %v", warnings, err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestWriteDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	p, err := WriteDefault(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(p); err != nil {
		t.Errorf("written manifest does not load: %v", err)
	}
	if _, err := WriteDefault(dir); !errors.Is(err, ErrExists) {
		t.Errorf("second WriteDefault: %v", err)
	}
}
