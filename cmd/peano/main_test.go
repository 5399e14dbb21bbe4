package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/mjgrzymek/PeanoScript/internal/config"
	"github.com/mjgrzymek/PeanoScript/internal/driver"
	"github.com/mjgrzymek/PeanoScript/internal/version"
)

func init() {
	color.NoColor = true
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func plainCheckOptions(format string) checkOptions {
	return checkOptions{
		format: format,
		ui:     toggleOff,
		batch:  driver.BatchOptions{Options: driver.Options{MaxDiagnostics: 10}, Jobs: 2},
	}
}

func TestParseToggle(t *testing.T) {
	tests := []struct {
		in      string
		want    toggle
		wantErr bool
	}{
		{"", toggleAuto, false},
		{" ON ", toggleOn, false},
		{"off", toggleOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := parseToggle("ui", tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseToggle(%q) = %q, %v", tt.in, got, err)
		}
	}
	if _, err := parseToggle("ui", "sometimes"); err == nil || !strings.Contains(err.Error(), "--ui") {
		t.Errorf("error does not name the flag: %v", err)
	}
}

type fakeFlags map[string]string

func (f fakeFlags) GetString(name string) (string, error) { return f[name], nil }

func TestColorToggle(t *testing.T) {
	if m, err := readToggle(fakeFlags{"color": "on"}, "color"); err != nil || !colorFor(m, os.Stdout) {
		t.Errorf("on: %q %v", m, err)
	}
	if m, err := readToggle(fakeFlags{"color": "off"}, "color"); err != nil || colorFor(m, os.Stdout) {
		t.Errorf("off: %q %v", m, err)
	}
	if _, err := readToggle(fakeFlags{"color": "rainbow"}, "color"); err == nil {
		t.Error("invalid colour accepted")
	}
	t.Setenv("NO_COLOR", "1")
	if colorFor(toggleAuto, os.Stdout) {
		t.Error("NO_COLOR ignored")
	}
	if !toggleAuto.resolve(func() bool { return true }) {
		t.Error("auto did not consult detect")
	}
}

func TestResolveExercise(t *testing.T) {
	cfg := config.Default()
	cfg.Exercise = config.Exercise{Var: "fromFile", Type: "0 == 0"}

	ex, err := resolveExercise("thm", "1 == 1", cfg)
	if err != nil || ex == nil || ex.VarName != "thm" {
		t.Errorf("flags: %+v %v", ex, err)
	}
	ex, err = resolveExercise("", "", cfg)
	if err != nil || ex == nil || ex.VarName != "fromFile" {
		t.Errorf("config: %+v %v", ex, err)
	}
	if _, err := resolveExercise("thm", "", cfg); err == nil {
		t.Error("half an exercise accepted")
	}
	if ex, err := resolveExercise("", "", config.Default()); ex != nil || err != nil {
		t.Errorf("no exercise: %+v %v", ex, err)
	}
}

func TestCheckPathsPretty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.peano", "const a: 0 == 0 = eqRefl(0);")
	writeFile(t, dir, "bad.peano", "const f = (x: N) => { continue eqRefl(x); };\nreturn f;")
	writeFile(t, dir, "notes.txt", "ignored")

	var out, errOut bytes.Buffer
	failed, err := checkPaths(context.Background(), []string{dir}, plainCheckOptions("pretty"), &out, &errOut)
	if err != nil {
		t.Fatal(err)
	}
	if failed != 1 {
		t.Errorf("failed = %d", failed)
	}
	text := out.String()
	for _, want := range []string{"SEM3005", "good.peano: ok", "bad.peano: 1 error(s)"} {
		if !strings.Contains(text, want) {
			t.Errorf("output lacks %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "notes.txt") {
		t.Error("non-PeanoScript file was checked")
	}
}

func TestCheckPathsShort(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.peano", "const a: 0 == 0 = eqRefl(0);")
	writeFile(t, dir, "bad.peano", "const f = (x: N) => { continue eqRefl(x); };")

	var out bytes.Buffer
	failed, err := checkPaths(context.Background(), []string{dir}, plainCheckOptions("short"), &out, &bytes.Buffer{})
	if err != nil || failed != 1 {
		t.Fatalf("failed %d err %v", failed, err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "error SEM3005 ") || !strings.Contains(lines[0], "bad.peano:1:23 ") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestCheckPathsFix(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "bad.peano", "const f = (x: N) => { continue eqRefl(x); };")

	opts := plainCheckOptions("pretty")
	opts.apply = true
	var out bytes.Buffer
	if _, err := checkPaths(context.Background(), []string{p}, opts, &out, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "applied 1 fix(es) in 1 file(s)") {
		t.Errorf("output:\n%s", out.String())
	}
	got, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "const f = (x: N) => { return eqRefl(x); };" {
		t.Errorf("file = %q", got)
	}

	out.Reset()
	failed, err := checkPaths(context.Background(), []string{p}, opts, &out, &bytes.Buffer{})
	if err != nil || failed != 0 {
		t.Fatalf("recheck: failed %d err %v", failed, err)
	}
	if !strings.Contains(out.String(), "no fixes to apply") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestProfileOptions(t *testing.T) {
	opts, err := profileOptions(fakeFlags{"cpu-profile": "cpu.out", "runtime-trace": "t.out"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.CPU != "cpu.out" || opts.Trace != "t.out" || opts.Mem != "" || !opts.Enabled() {
		t.Errorf("opts = %+v", opts)
	}
}

func TestCheckPathsJSONWithExercise(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "thm.peano", "const thm: (x: N) => x + 0 == x = x => addZero(x);")

	opts := plainCheckOptions("json")
	opts.batch.Exercise = &driver.Exercise{VarName: "thm", TypeSource: "(x: N) => x + 0 == x"}
	var out bytes.Buffer
	failed, err := checkPaths(context.Background(), []string{p}, opts, &out, &bytes.Buffer{})
	if err != nil || failed != 0 {
		t.Fatalf("failed %d err %v", failed, err)
	}
	var files []checkFileJSON
	if err := json.Unmarshal(out.Bytes(), &files); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(files) != 1 || files[0].Count != 0 {
		t.Fatalf("files = %+v", files)
	}
	if ex := files[0].Exercise; ex == nil || !ex.Solved {
		t.Errorf("exercise = %+v", ex)
	}
}

func TestCheckPathsRecords(t *testing.T) {
	p := writeFile(t, t.TempDir(), "r.peano", "const f = (x: N) => eqRefl(x);")
	var out bytes.Buffer
	if _, err := checkPaths(context.Background(), []string{p}, plainCheckOptions("records"), &out, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	var files []checkRecordsJSON
	if err := json.Unmarshal(out.Bytes(), &files); err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || len(files[0].Hovers) == 0 || len(files[0].Defined) != 1 {
		t.Errorf("records = %+v", files)
	}
}

func TestCheckPathsEmpty(t *testing.T) {
	if _, err := checkPaths(context.Background(), []string{t.TempDir()}, plainCheckOptions("pretty"), &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
		t.Error("empty directory accepted")
	}
}

func TestRunFilePrintsLogs(t *testing.T) {
	p := writeFile(t, t.TempDir(), "run.peano", "const a = 3;\nconsole.log(a, eqRefl(a));")
	var out, errOut bytes.Buffer
	failed, err := runFile(context.Background(), p, runOptions{showType: true}, &out, &errOut)
	if err != nil || failed {
		t.Fatalf("failed %v err %v\n%s", failed, err, errOut.String())
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("output:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[0], "2:13: 3 (") || !strings.HasPrefix(lines[1], "2:16: (eq) (") {
		t.Errorf("log lines = %q", lines[:2])
	}
	if !strings.HasPrefix(lines[2], "type: ") {
		t.Errorf("type line = %q", lines[2])
	}
}

func TestRunFileStopsOnErrors(t *testing.T) {
	p := writeFile(t, t.TempDir(), "bad.peano", "console.log(b);")
	var out, errOut bytes.Buffer
	failed, err := runFile(context.Background(), p, runOptions{}, &out, &errOut)
	if err != nil || !failed {
		t.Fatalf("failed %v err %v", failed, err)
	}
	if out.Len() != 0 || !strings.Contains(errOut.String(), "b") {
		t.Errorf("out %q err %q", out.String(), errOut.String())
	}
}

func TestRunFileTimeout(t *testing.T) {
	src := `
const big = for(let i=0; let p: i == i = eqRefl(0); i < 1000 * 1000 * 1000; i++){
  continue eqRefl(succ(i));
};
console.log(big);`
	p := writeFile(t, t.TempDir(), "slow.peano", src)
	var out bytes.Buffer
	failed, err := runFile(context.Background(), p, runOptions{timeout: 50 * time.Millisecond}, &out, &bytes.Buffer{})
	if err != nil || !failed {
		t.Fatalf("failed %v err %v", failed, err)
	}
	if !strings.Contains(out.String(), "timed out after 50ms") {
		t.Errorf("output = %q", out.String())
	}
}

func TestInitProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proofs")
	created, err := initProject(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 2 {
		t.Fatalf("created = %v", created)
	}
	if _, err := initProject(dir); err == nil {
		t.Error("second init succeeded")
	}

	src, err := os.ReadFile(filepath.Join(dir, "main.peano"))
	if err != nil {
		t.Fatal(err)
	}
	res, err := driver.Compile(context.Background(), string(src), driver.Options{NoEval: true}, nil, nil)
	if err != nil || res.HasErrors() {
		t.Fatalf("starter file does not check: %v %+v", err, res.Bag.Items())
	}
}

func TestVersionJSON(t *testing.T) {
	var out bytes.Buffer
	if err := renderVersionJSON(&out, version.Info{Version: "1.2.3", GitCommit: "abc"}); err != nil {
		t.Fatal(err)
	}
	var payload map[string]any
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload["tool"] != "peano" || payload["version"] != "1.2.3" || payload["git_commit"] != "abc" {
		t.Errorf("payload = %v", payload)
	}

	out.Reset()
	renderVersionPretty(&out, version.Info{Version: "1.2.3"})
	if got := out.String(); got != "peano 1.2.3: "+versionTagline+"\n" {
		t.Errorf("pretty = %q", got)
	}
}
