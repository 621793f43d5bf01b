// Package forge exposes document generation as a remote service. The Server
// publishes scaffold operations as MCP tools over SSE/HTTP, and Remote is the
// matching scaffold.Backend that forwards requests to such a server.
package forge

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/srtdog64/TemplateForge/internal/scaffold"
	"github.com/srtdog64/TemplateForge/internal/telemetry"
)

// Version is the generation service version reported to clients.
const Version = "0.1.0"

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:7411"

// Server is the MCP generation service.
type Server struct {
	gen    *scaffold.Generator
	events *telemetry.Emitter
	mcp    *mcp.Server
	addr   string
	srv    *http.Server
	ln     net.Listener
}

// NewServer creates a server that materializes requests through gen and
// listens on addr once started. An empty addr uses DefaultAddr; events may be
// nil.
func NewServer(gen *scaffold.Generator, addr string, events *telemetry.Emitter) *Server {
	if gen == nil {
		gen = scaffold.NewGenerator(nil)
	}
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		gen:    gen,
		events: events,
		addr:   addr,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "tforge",
				Version: Version,
			},
			nil,
		),
	}
	s.registerTools()
	return s
}

// Start begins serving over SSE/HTTP. It returns once the listener is bound.
func (s *Server) Start(_ context.Context) error {
	handler := mcp.NewSSEHandler(func(_ *http.Request) *mcp.Server {
		return s.mcp
	}, nil)

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("forge: listen on %s: %w", s.addr, err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: handler}

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "forge: serve error: %v\n", err)
		}
	}()
	return nil
}

// Addr returns the listener address, useful with port 0.
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// URL returns the SSE endpoint clients connect to, or "" before Start.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String() + "/sse"
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) emit(tool string, data any) {
	if err := s.events.Emit(telemetry.Event{Kind: telemetry.KindToolCall, Document: tool, Data: data}); err != nil {
		fmt.Fprintf(os.Stderr, "forge: %v\n", err)
	}
}
