package lsp

import (
	"time"

	"github.com/samber/lo"

	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/driver"
)

const (
	severityError       = 1
	severityWarning     = 2
	severityInformation = 3
)

// scheduleDiagnostics (re)arms the debounce timer of uri.
func (s *Server) scheduleDiagnostics(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[uri]
	if doc == nil {
		return
	}
	doc.seq++
	seq := doc.seq
	if doc.timer != nil {
		doc.timer.Stop()
	}
	doc.timer = time.AfterFunc(s.debounce, func() {
		s.runDiagnostics(uri, seq)
	})
}

// runDiagnostics compiles the document if seq is still its latest edit, then
// publishes diagnostics and starts watching its console.log slots.
func (s *Server) runDiagnostics(uri string, seq uint64) {
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil || doc.seq != seq {
		s.mu.Unlock()
		return
	}
	text, version, session, ex := doc.text, doc.version, doc.session, s.exercise
	s.mu.Unlock()

	log := s.logger().With("uri", uri, "version", version)
	start := time.Now()
	res, gen, err := session.Compile(s.baseCtx, text, ex)
	if err != nil {
		if s.baseCtx.Err() != nil {
			return
		}
		log.Warn("analysis failed", "err", err)
		if perr := s.sendPublish(uri, &version, []lspDiagnostic{{
			Severity: severityError,
			Source:   "peano",
			Message:  err.Error(),
		}}); perr != nil {
			log.Warn("publish failed", "err", perr)
		}
		return
	}
	log.Debug("analysis done", "gen", gen, "diagnostics", res.Bag.Len(), "elapsed", time.Since(start))

	s.mu.Lock()
	if s.docs[uri] != doc || doc.seq != seq {
		s.mu.Unlock()
		return
	}
	doc.snap = &snapshot{version: version, gen: gen, res: res}
	s.mu.Unlock()

	if err := s.sendPublish(uri, &version, buildDiagnostics(res, ex)); err != nil {
		log.Warn("publish failed", "err", err)
	}
	s.watchLogs(uri, res)
}

// buildDiagnostics converts the compile bag. A fix is appended to the
// message; the exercise verdict becomes one diagnostic at the top.
func buildDiagnostics(res *driver.Result, ex *driver.Exercise) []lspDiagnostic {
	out := make([]lspDiagnostic, 0, res.Bag.Len()+1)
	for _, d := range res.Bag.Items() {
		msg := d.Message
		for _, fix := range d.Fixes {
			msg += "\nQuick fix: " + fix.Title
		}
		out = append(out, lspDiagnostic{
			Range:    rangeForSpan(res.File, d.Primary),
			Severity: lspSeverity(d.Severity),
			Code:     d.Code.ID(),
			Source:   "peano",
			Message:  msg,
		})
	}
	if msg, solved := res.ExerciseVerdict(ex); msg != "" && !res.HasErrors() {
		sev := severityWarning
		if solved {
			sev = severityInformation
		}
		out = append(out, lspDiagnostic{Severity: sev, Source: "peano", Message: msg})
	}
	return out
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return severityError
	case diag.SevWarning:
		return severityWarning
	default:
		return severityInformation
	}
}

// watchLogs asks the client to re-query inlay hints while the console.log
// slots of res resolve, so "Running..." counters tick and results appear.
func (s *Server) watchLogs(uri string, res *driver.Result) {
	s.mu.Lock()
	refresh := s.refreshSupport
	s.mu.Unlock()
	pending := res.Logs()
	if !refresh || len(pending) == 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.refreshInterval)
		defer ticker.Stop()
		for len(pending) > 0 {
			select {
			case <-s.baseCtx.Done():
				return
			case <-ticker.C:
			case <-pending[0].Slot.Done():
			}
			if snap := s.snapshotFor(uri); snap == nil || snap.res != res {
				return
			}
			pending = lo.Filter(pending, func(e driver.LogEntry, _ int) bool {
				_, done := e.Slot.Result()
				return !done
			})
			if err := s.sendRequest("workspace/inlayHint/refresh", nil); err != nil {
				return
			}
		}
	}()
}
