package driver

import (
	"context"
	"sync"

	"github.com/mjgrzymek/PeanoScript/internal/value"
)

// Session compiles successive versions of one document. Each compile kills
// the console.log evaluations of the previous one.
type Session struct {
	opts Options

	mu   sync.Mutex
	kill *value.KillSwitch
	gen  uint64
}

func NewSession(opts Options) *Session {
	return &Session{opts: opts}
}

// Compile supersedes the previous compile and checks src. The returned
// generation increases with every call.
func (s *Session) Compile(ctx context.Context, src string, ex *Exercise) (*Result, uint64, error) {
	s.mu.Lock()
	if s.kill != nil {
		s.kill.Kill()
	}
	kill := value.NewKillSwitch()
	s.kill = kill
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	res, err := Compile(ctx, src, s.opts, ex, kill)
	return res, gen, err
}

// Current reports whether gen is still the latest compile.
func (s *Session) Current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

// Stop kills the running evaluation, if any.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kill != nil {
		s.kill.Kill()
		s.kill = nil
	}
}
