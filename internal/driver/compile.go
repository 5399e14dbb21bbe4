package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/axioms"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/logging"
	"github.com/mjgrzymek/PeanoScript/internal/observ"
	"github.com/mjgrzymek/PeanoScript/internal/parser"
	"github.com/mjgrzymek/PeanoScript/internal/resolve"
	"github.com/mjgrzymek/PeanoScript/internal/sema"
	"github.com/mjgrzymek/PeanoScript/internal/source"
	"github.com/mjgrzymek/PeanoScript/internal/types"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

// Options configure one compile.
type Options struct {
	// Name is the file name used for virtual sources. Defaults to "<input>".
	Name string
	// HardcodedImpls swaps the realizers of the decidability lemmas for
	// direct computations.
	HardcodedImpls bool
	// NoEval leaves console.log slots unstarted.
	NoEval         bool
	MaxDiagnostics int
	Observer       PhaseObserver
}

// Exercise names the proof a program must define, with its type as source.
type Exercise struct {
	VarName    string
	TypeSource string
}

// Result is a compiled program. Program is nil when the source did not parse.
type Result struct {
	FileSet  *source.FileSet
	File     *source.File
	Program  *ast.Block
	Type     string
	TypeTree types.Type
	Impl     value.Impl
	Records  []sema.Record
	Exercise *sema.ExerciseResult
	Bag      *diag.Bag
	Timings  observ.Report
	// Cached is set when the result was restored from the disk cache;
	// Records and Impl are then empty.
	Cached bool
}

// LogEntry is one console.log argument with its position.
type LogEntry struct {
	Span source.Span
	Slot *sema.LogSlot
}

// Compile parses and checks src as a single virtual file.
func Compile(ctx context.Context, src string, opts Options, ex *Exercise, kill *value.KillSwitch) (*Result, error) {
	name := opts.Name
	if name == "" {
		name = "<input>"
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(src))
	return CompileFile(ctx, fs, fs.Get(id), opts, ex, kill)
}

// CompileFile parses and checks a file already loaded into fs. Syntax and
// type errors end up in Result.Bag; the error return is reserved for a
// malformed exercise type and cancellation.
func CompileFile(ctx context.Context, fs *source.FileSet, file *source.File, opts Options, ex *Exercise, kill *value.KillSwitch) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	exercise, err := resolveExercise(ex)
	if err != nil {
		return nil, err
	}
	lg := logging.FromContext(ctx).With("file", file.Path)
	timer := observ.NewTimer()
	phase := func(name string, fn func() string) {
		if opts.Observer != nil {
			opts.Observer(PhaseEvent{Name: name, Status: PhaseStart})
		}
		dur := timer.Measure(name, fn)
		if opts.Observer != nil {
			opts.Observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: dur})
		}
		lg.Debug("phase", "name", name, "elapsed", dur)
	}

	res := &Result{FileSet: fs, File: file, Bag: diag.NewBag(opts.MaxDiagnostics)}

	var parseErr error
	phase("parse", func() string {
		res.Program, parseErr = parser.ParseCode(file, parser.Options{})
		if parseErr != nil {
			return "failed"
		}
		return fmt.Sprintf("%d statements", len(res.Program.Stmts))
	})
	if parseErr != nil {
		var d parser.Diagnosable
		if !errors.As(parseErr, &d) {
			return nil, fmt.Errorf("parse %s: %w", file.Path, parseErr)
		}
		res.Bag.Add(d.Diagnostic())
		res.Timings = timer.Report()
		return res, nil
	}

	var checked *sema.Result
	phase("check", func() string {
		checked = sema.Check(res.Program, sema.Options{
			HardcodedImpls: opts.HardcodedImpls,
			Exercise:       exercise,
			Kill:           kill,
		})
		return fmt.Sprintf("%d records", len(checked.Records.All()))
	})
	res.TypeTree = checked.Type
	res.Type = types.Unparse(checked.Type)
	res.Impl = checked.Impl
	res.Records = checked.Records.All()
	res.Exercise = checked.Exercise
	addRecords(res.Bag, file.ID, res.Records)
	res.Bag.Sort()

	if !opts.NoEval {
		logs := res.Logs()
		phase("eval", func() string {
			for _, entry := range logs {
				entry.Slot.Start(ctx)
			}
			return fmt.Sprintf("%d logs started", len(logs))
		})
	}
	res.Timings = timer.Report()
	lg.Debug("compiled", "type", res.Type, "errors", res.Bag.HasErrors())
	return res, nil
}

func resolveExercise(ex *Exercise) (*sema.Exercise, error) {
	if ex == nil {
		return nil, nil
	}
	t, err := resolve.FromString(ex.TypeSource)
	if err != nil {
		return nil, fmt.Errorf("exercise %s: type %q: %w", ex.VarName, ex.TypeSource, err)
	}
	return &sema.Exercise{VarName: ex.VarName, Type: t}, nil
}

// HasErrors reports whether the compile produced any error diagnostic.
func (r *Result) HasErrors() bool {
	return r.Bag != nil && r.Bag.HasErrors()
}

// Logs returns the console.log slots in source order.
func (r *Result) Logs() []LogEntry {
	var out []LogEntry
	for _, rec := range r.Records {
		if rec.Kind != sema.RecordLog {
			continue
		}
		out = append(out, LogEntry{Span: spanOf(r.File.ID, rec.Meta), Slot: rec.Log})
	}
	return out
}

// LogOutput is a resolved console.log argument.
type LogOutput struct {
	Span    source.Span
	Text    string
	IsError bool
	Elapsed time.Duration
}

// WaitLogs starts every slot that is not yet running and collects the results
// in source order. It stops early when ctx ends.
func (r *Result) WaitLogs(ctx context.Context) ([]LogOutput, error) {
	entries := r.Logs()
	for _, e := range entries {
		e.Slot.Start(ctx)
	}
	out := make([]LogOutput, 0, len(entries))
	for _, e := range entries {
		lr, err := e.Slot.Wait(ctx)
		if err != nil {
			return out, err
		}
		out = append(out, LogOutput{Span: e.Span, Text: lr.Text, IsError: lr.IsError, Elapsed: e.Slot.Elapsed()})
	}
	return out, nil
}

// Evaluate runs a continuation. env defaults to the axiom realizers.
func Evaluate(ctx context.Context, impl value.Impl, env *value.Env) (value.Value, error) {
	if impl == nil {
		return nil, errors.New("evaluate: no continuation")
	}
	if env == nil {
		env = axioms.Env()
	}
	start := time.Now()
	v, err := impl(ctx, env)
	logging.FromContext(ctx).Debug("phase", "name", "eval", "elapsed", time.Since(start), "error", err)
	if err != nil {
		if errors.Is(err, value.ErrKilled) {
			return nil, err
		}
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	return v, nil
}
