package lsp

import (
	"time"

	"github.com/mjgrzymek/PeanoScript/internal/driver"
)

// document is one open editor buffer.
type document struct {
	uri     string
	text    string
	version int
	session *driver.Session
	timer   *time.Timer
	seq     uint64
	snap    *snapshot
}

// snapshot is the last finished analysis of a document.
type snapshot struct {
	version int
	gen     uint64
	res     *driver.Result
}

func (s *Server) snapshotFor(uri string) *snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[canonicalURI(uri)]
	if doc == nil {
		return nil
	}
	return doc.snap
}

func (s *Server) currentInlayConfig() inlayHintConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inlayHints
}
