// Package lsp serves PeanoScript documents to editors over stdio JSON-RPC.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mjgrzymek/PeanoScript/internal/driver"
	"github.com/mjgrzymek/PeanoScript/internal/logging"
	"github.com/mjgrzymek/PeanoScript/internal/version"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Debounce time.Duration
	// Driver is the compile configuration of every document.
	Driver   driver.Options
	Exercise *driver.Exercise
	// RefreshInterval paces inlay hint refreshes while console.log
	// evaluations are running.
	RefreshInterval time.Duration
}

// Server handles stdio JSON-RPC for the PeanoScript language server.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex

	mu                sync.Mutex
	docs              map[string]*document
	shutdownRequested bool
	refreshSupport    bool
	driverOpts        driver.Options
	exercise          *driver.Exercise
	inlayHints        inlayHintConfig

	debounce        time.Duration
	refreshInterval time.Duration
	requestSeq      atomic.Int64
	baseCtx         context.Context
	wg              sync.WaitGroup
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	refresh := opts.RefreshInterval
	if refresh <= 0 {
		refresh = time.Second
	}
	driverOpts := opts.Driver
	if driverOpts.MaxDiagnostics <= 0 {
		driverOpts.MaxDiagnostics = 100
	}
	return &Server{
		in:              bufio.NewReader(in),
		out:             bufio.NewWriter(out),
		docs:            make(map[string]*document),
		driverOpts:      driverOpts,
		exercise:        opts.Exercise,
		inlayHints:      defaultInlayHintConfig(),
		debounce:        debounce,
		refreshInterval: refresh,
		baseCtx:         context.Background(),
	}
}

// Run serves LSP requests until exit or EOF.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	defer s.stopAll()
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger().Warn("failed to parse message", "err", err)
			continue
		}
		if msg.Method == "" {
			// response to one of our requests
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	s.mu.Lock()
	down := s.shutdownRequested
	s.mu.Unlock()
	if down && msg.Method != "exit" {
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeInvalidRequest, "server is shutting down")
		}
		return nil
	}

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized", "$/setTrace", "$/cancelRequest", "textDocument/didSave":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if down {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/inlayHint":
		return s.handleInlayHint(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	s.mu.Lock()
	s.refreshSupport = params.Capabilities.Workspace.InlayHint.RefreshSupport
	s.mu.Unlock()
	if len(params.InitializationOptions) > 0 {
		s.applySettings(params.InitializationOptions)
	}

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2, // incremental
			},
			HoverProvider:      true,
			InlayHintProvider:  &inlayHintOptions{},
			CodeActionProvider: &codeActionOptions{CodeActionKinds: []string{"quickfix"}},
		},
		ServerInfo: serverInfo{Name: "peano", Version: version.Collect().Version},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	s.stopAll()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	if old := s.docs[uri]; old != nil {
		old.stop()
	}
	opts := s.driverOpts
	opts.Name = documentName(uri)
	s.docs[uri] = &document{
		uri:     uri,
		text:    params.TextDocument.Text,
		version: params.TextDocument.Version,
		session: driver.NewSession(opts),
	}
	s.mu.Unlock()
	s.scheduleDiagnostics(uri)
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil {
		s.mu.Unlock()
		return nil
	}
	doc.text = applyChanges(doc.text, params.ContentChanges)
	doc.version = params.TextDocument.Version
	s.mu.Unlock()
	s.scheduleDiagnostics(uri)
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	doc := s.docs[uri]
	delete(s.docs, uri)
	if doc != nil {
		doc.stop()
	}
	s.mu.Unlock()
	if doc == nil {
		return nil
	}
	return s.sendPublish(uri, nil, nil)
}

// reanalyzeAll restarts every document with fresh driver options.
func (s *Server) reanalyzeAll() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	for uri, doc := range s.docs {
		doc.stop()
		opts := s.driverOpts
		opts.Name = documentName(uri)
		doc.session = driver.NewSession(opts)
		uris = append(uris, uri)
	}
	s.mu.Unlock()
	for _, uri := range uris {
		s.scheduleDiagnostics(uri)
	}
}

func (s *Server) stopAll() {
	s.mu.Lock()
	for _, doc := range s.docs {
		doc.stop()
	}
	s.mu.Unlock()
}

func (d *document) stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	d.session.Stop()
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   rpcError{Code: code, Message: message},
	})
}

func (s *Server) sendNotification(method string, params any) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	})
}

func (s *Server) sendRequest(method string, params any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      s.requestSeq.Add(1),
		"method":  method,
	}
	if params != nil {
		msg["params"] = params
	}
	return s.send(msg)
}

func (s *Server) sendPublish(uri string, version *int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	return s.sendNotification("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: list,
	})
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logger() *slog.Logger {
	return logging.FromContext(s.baseCtx).With("component", "lsp")
}
