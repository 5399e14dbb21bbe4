package sema

import (
	"context"
	"sync"
	"time"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/types"
)

// RecordKind tells which fields of a Record are set.
type RecordKind uint8

const (
	RecordError      RecordKind = iota // Message, Code, Fix
	RecordVarDefined                   // Name, Type; Meta is where the name is in scope
	RecordVarHover                     // Type; Meta is the identifier
	RecordRequired                     // Type (the requirement), Method
	RecordLog                          // Log
)

var recordKindNames = [...]string{
	RecordError:      "error",
	RecordVarDefined: "var defined",
	RecordVarHover:   "var hover",
	RecordRequired:   "required",
	RecordLog:        "log",
}

func (k RecordKind) String() string { return recordKindNames[k] }

// Fix is a suggested edit of the record's span.
type Fix struct {
	ReplaceWith string
}

// Record is one piece of information the checker produced for an editor:
// an error, a binding, a hover type, a goal, or a pending console.log.
type Record struct {
	Kind    RecordKind
	Meta    ast.Meta
	Message string
	Code    diag.Code
	Fix     *Fix
	Name    string
	Type    string
	Method  ast.ReturnKind
	Log     *LogSlot
}

// Records is the append-only sink the checker writes to. It is filled
// during one Check call and not modified afterwards.
type Records struct {
	items []Record
}

func (r *Records) add(rec Record) {
	r.items = append(r.items, rec)
}

// All returns every record in emission order.
func (r *Records) All() []Record {
	if r == nil {
		return nil
	}
	return r.items
}

// Errors returns the error records in emission order.
func (r *Records) Errors() []Record {
	return r.filter(RecordError)
}

// Logs returns the console.log slots in source order.
func (r *Records) Logs() []*LogSlot {
	var out []*LogSlot
	for _, rec := range r.filter(RecordLog) {
		out = append(out, rec.Log)
	}
	return out
}

func (r *Records) HasErrors() bool {
	return len(r.Errors()) > 0
}

func (r *Records) filter(kind RecordKind) []Record {
	var out []Record
	for _, rec := range r.All() {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out
}

func (r *Records) errorAt(at ast.Meta, err error, fix *Fix) {
	r.add(Record{Kind: RecordError, Meta: at, Message: err.Error(), Code: codeOf(err), Fix: fix})
}

// ReportError makes Records a resolve.ErrorSink.
func (r *Records) ReportError(at ast.Meta, err error) {
	r.errorAt(at, err, nil)
}

func (r *Records) defined(at ast.Meta, name string, t types.Type) {
	r.add(Record{Kind: RecordVarDefined, Meta: at, Name: name, Type: types.Unparse(t)})
}

func (r *Records) hover(at ast.Meta, t types.Type) {
	r.hoverText(at, types.Unparse(t))
}

func (r *Records) hoverText(at ast.Meta, text string) {
	r.add(Record{Kind: RecordVarHover, Meta: at, Type: text})
}

func (r *Records) required(at ast.Meta, req types.Type, method ast.ReturnKind) {
	r.add(Record{Kind: RecordRequired, Meta: at, Type: types.Unparse(req), Method: method})
}

// LogResult is the outcome of one console.log argument.
type LogResult struct {
	Text    string
	IsError bool
}

// LogSlot is the pending result of one console.log argument. Check creates
// it; Start evaluates it on its own goroutine.
type LogSlot struct {
	run func(ctx context.Context) (string, error)

	once sync.Once
	done chan struct{}

	mu      sync.Mutex
	started time.Time
	ended   time.Time
	result  LogResult
}

func newLogSlot(run func(ctx context.Context) (string, error)) *LogSlot {
	return &LogSlot{run: run, done: make(chan struct{})}
}

// failedLog is a slot whose outcome is known at check time.
func failedLog(err error) *LogSlot {
	return newLogSlot(func(context.Context) (string, error) { return "", err })
}

// Start launches the evaluation. Later calls do nothing.
func (s *LogSlot) Start(ctx context.Context) {
	s.once.Do(func() {
		s.mu.Lock()
		s.started = time.Now()
		s.mu.Unlock()
		go func() {
			text, err := s.run(ctx)
			res := LogResult{Text: text}
			if err != nil {
				res = LogResult{Text: err.Error(), IsError: true}
			}
			s.mu.Lock()
			s.result = res
			s.ended = time.Now()
			s.mu.Unlock()
			close(s.done)
		}()
	})
}

// Done is closed once the result is available.
func (s *LogSlot) Done() <-chan struct{} { return s.done }

// Result returns the outcome and whether it is available yet.
func (s *LogSlot) Result() (LogResult, bool) {
	select {
	case <-s.done:
	default:
		return LogResult{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, true
}

// Wait starts the slot if needed and blocks until it resolves or ctx ends.
func (s *LogSlot) Wait(ctx context.Context) (LogResult, error) {
	s.Start(ctx)
	select {
	case <-s.done:
		res, _ := s.Result()
		return res, nil
	case <-ctx.Done():
		return LogResult{}, ctx.Err()
	}
}

// Elapsed is the running time so far, or the total once resolved.
func (s *LogSlot) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.started.IsZero():
		return 0
	case s.ended.IsZero():
		return time.Since(s.started)
	}
	return s.ended.Sub(s.started)
}

// Seconds is the whole-second counter shown next to a pending log.
func (s *LogSlot) Seconds() int {
	return int(s.Elapsed() / time.Second)
}
