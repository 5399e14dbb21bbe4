package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/parser"
	"github.com/mjgrzymek/PeanoScript/internal/token"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestListFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.peano":       "",
		"sub/b.ps":      "",
		"sub/notes.txt": "",
		"c.txt":         "",
	})
	got, err := ListFiles([]string{dir, filepath.Join(dir, "c.txt"), filepath.Join(dir, "a.peano")})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.peano"),
		filepath.Join(dir, "c.txt"),
		filepath.Join(dir, "sub", "b.ps"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("file %d = %s, want %s", i, got[i], want[i])
		}
	}

	if _, err := ListFiles([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("missing path accepted")
	}
}

func TestCheckFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"good.peano":   "const a: 3 = 3;\nreturn a;",
		"bad.peano":    "const a: 4 = 3;",
		"broken.peano": "const a = ",
		"logs.peano":   "console.log(1);",
	})
	var (
		mu     sync.Mutex
		events []Event
	)
	opts := BatchOptions{
		Jobs: 2,
		Progress: func(ev Event) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		},
	}
	_, results, err := CheckFiles(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatal(err)
	}
	byName := map[string]*Result{}
	for _, r := range results {
		byName[filepath.Base(r.Path)] = r.Result
	}
	if len(byName) != 4 {
		t.Fatalf("results = %+v", results)
	}
	if r := byName["good.peano"]; r.HasErrors() || r.Type != "3" {
		t.Errorf("good: type %s, %+v", r.Type, r.Bag.Items())
	}
	if r := byName["bad.peano"]; !r.HasErrors() || r.Bag.Items()[0].Code != diag.SemaNotAssignable {
		t.Errorf("bad: %+v", r.Bag.Items())
	}
	if r := byName["broken.peano"]; !r.HasErrors() || r.Program != nil {
		t.Errorf("broken: %+v", r.Bag.Items())
	}
	if logs := byName["logs.peano"].Logs(); len(logs) != 1 {
		t.Errorf("logs = %d", len(logs))
	} else if _, started := logs[0].Slot.Result(); started {
		t.Error("batch check evaluated console.log")
	}

	final := map[string]Status{}
	for _, ev := range events {
		if ev.Status == StatusDone || ev.Status == StatusError {
			final[filepath.Base(ev.File)] = ev.Status
		}
	}
	if final["good.peano"] != StatusDone || final["bad.peano"] != StatusError {
		t.Errorf("final statuses = %v", final)
	}
}

func TestCheckFilesUsesCache(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"bad.peano": "const f = (x: N): x == x => {\n  continue eqRefl(x);\n};",
	})
	cache, err := OpenDiskCache(t.TempDir(), "peano")
	if err != nil {
		t.Fatal(err)
	}
	opts := BatchOptions{Cache: cache}

	_, first, err := CheckFiles(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatal(err)
	}
	_, second, err := CheckFiles(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatal(err)
	}
	a, b := first[0].Result, second[0].Result
	if a.Cached || !b.Cached {
		t.Fatalf("cached flags: first %v, second %v", a.Cached, b.Cached)
	}
	if a.Type != b.Type || a.Bag.Len() != b.Bag.Len() {
		t.Fatalf("cached result differs: %+v vs %+v", a.Bag.Items(), b.Bag.Items())
	}
	for i, d := range a.Bag.Items() {
		c := b.Bag.Items()[i]
		if d.Code != c.Code || d.Message != c.Message || d.Primary != c.Primary || len(d.Fixes) != len(c.Fixes) {
			t.Errorf("diagnostic %d: %+v vs %+v", i, d, c)
		}
	}

	// Другие опции -> другой ключ.
	opts.HardcodedImpls = true
	_, third, err := CheckFiles(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third[0].Result.Cached {
		t.Error("cache ignored the options")
	}
}

func TestCheckFilesBadExercise(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.peano": "const a = 1;"})
	_, _, err := CheckFiles(context.Background(), []string{dir}, BatchOptions{
		Exercise: &Exercise{VarName: "a", TypeSource: "=="},
	})
	if err == nil {
		t.Error("malformed exercise type accepted")
	}
}

func TestTokenizeAndParse(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.peano": "const a = 1 + 2;\n"})
	path := filepath.Join(dir, "a.peano")

	tr, err := Tokenize(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(tr.Tokens); n == 0 || tr.Tokens[n-1].Kind != token.EOF {
		t.Errorf("tokens = %v", tr.Tokens)
	}
	if tr.Bag.HasErrors() {
		t.Errorf("lex errors: %+v", tr.Bag.Items())
	}

	pr, err := Parse(path, parser.StartCode, 0)
	if err != nil {
		t.Fatal(err)
	}
	if pr.Node == nil || pr.Bag.HasErrors() {
		t.Errorf("parse: node %v, diagnostics %+v", pr.Node, pr.Bag.Items())
	}

	pr, err = Parse(path, parser.StartExpr, 0)
	if err != nil {
		t.Fatal(err)
	}
	if pr.Node != nil || !pr.Bag.HasErrors() {
		t.Error("statement parsed as an expression")
	}

	if _, err := Tokenize(filepath.Join(dir, "missing.peano"), 0); err == nil {
		t.Error("missing file tokenized")
	}
}
