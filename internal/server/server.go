package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/court-reservation/internal/httpwire"
	"github.com/example/court-reservation/internal/logging"
)

const defaultIdleTimeout = 60 * time.Second

// Server accepts raw TCP connections and runs the request pipeline: frame a
// request, resolve the route, authenticate when required, dispatch, frame
// the response. One goroutine per connection; the application services are
// the only shared state.
type Server struct {
	addr        string
	idleTimeout time.Duration
	auth        authService
	router      *Router
	responder   responder
	logger      *slog.Logger

	listener   net.Listener
	wg         sync.WaitGroup
	reqCounter atomic.Uint64
}

// Options configures a Server.
type Options struct {
	Addr        string
	IdleTimeout time.Duration
	Auth        authService
	Handlers    *Handlers
	Logger      *slog.Logger
}

// New constructs a Server from its collaborators.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	idle := opts.IdleTimeout
	if idle <= 0 {
		idle = defaultIdleTimeout
	}
	return &Server{
		addr:        opts.Addr,
		idleTimeout: idle,
		auth:        opts.Auth,
		router:      NewRouter(opts.Handlers),
		responder:   newResponder(logger),
		logger:      logger,
	}
}

// Start binds the listener and launches the accept loop. The loop stops
// when ctx is cancelled; Wait blocks until in-flight connections drain.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.logger.Info("reservation server listening", "addr", listener.Addr().String())

	go func() {
		<-ctx.Done()
		if cerr := listener.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			s.logger.Error("failed to close listener", "error", cerr)
		}
	}()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return
				}
				s.logger.Error("failed to accept connection", "error", err)
				continue
			}
			s.wg.Add(1)
			go s.handleConnection(ctx, conn)
		}
	}()

	return nil
}

// Addr returns the bound listener address, useful when listening on :0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Wait blocks until every connection goroutine has finished.
func (s *Server) Wait() {
	s.wg.Wait()
}

// handleConnection runs the per-connection request loop. Requests on one
// connection are strictly sequential; a framing error answers 400 and
// closes, anything else keeps the connection alive unless the client asked
// to close.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Error("failed to close connection", "error", err)
		}
		s.wg.Done()
	}()

	remote := conn.RemoteAddr().String()
	reader := bufio.NewReader(conn)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(s.idleTimeout)); err != nil {
			return
		}

		req, err := httpwire.ReadRequest(reader)
		if err != nil {
			s.reportReadFailure(ctx, conn, remote, err)
			return
		}

		resp, closeConn := s.dispatch(ctx, req, remote)
		if closeConn || req.WantsClose() {
			resp.Header.Set("Connection", "close")
		}
		if err := s.writeResponse(conn, resp); err != nil {
			s.logger.Error("failed to write response", "remote", remote, "error", err)
			return
		}
		if closeConn || req.WantsClose() {
			return
		}
	}
}

func (s *Server) reportReadFailure(ctx context.Context, conn net.Conn, remote string, err error) {
	if errors.Is(err, io.EOF) {
		return
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		s.logger.Info("closing idle connection", "remote", remote)
		return
	}

	var fErr *httpwire.FramingError
	if errors.As(err, &fErr) {
		s.logger.Warn("malformed request", "remote", remote, "error", err)
		resp := s.responder.error(ctx, 400, codeMalformedRequest, "malformed HTTP request")
		resp.Header.Set("Connection", "close")
		if werr := s.writeResponse(conn, resp); werr != nil {
			s.logger.Error("failed to write framing error response", "remote", remote, "error", werr)
		}
		return
	}

	s.logger.Error("failed to read request", "remote", remote, "error", err)
}

func (s *Server) writeResponse(conn net.Conn, resp *httpwire.Response) error {
	if err := conn.SetWriteDeadline(time.Now().Add(s.idleTimeout)); err != nil {
		return err
	}
	_, err := resp.WriteTo(conn)
	return err
}

// dispatch routes one framed request through auth and the handler. The
// returned bool requests closing the connection after the response.
func (s *Server) dispatch(ctx context.Context, req *httpwire.Request, remote string) (resp *httpwire.Response, closeConn bool) {
	id := s.reqCounter.Add(1)
	logger := s.logger.With(
		"request_id", id,
		"remote", remote,
		"method", req.Method,
		"path", req.Path,
	)
	ctx = logging.ContextWithLogger(ctx, logger)

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("handler panicked", "panic", r)
			resp = s.responder.error(ctx, 500, codeInternal, "internal server error")
			closeConn = true
		}
		logger.Info("request completed", "status", resp.Status, "duration", time.Since(start))
	}()

	resolution := s.router.Resolve(req.Method, req.Path)
	switch {
	case resolution.NotFound:
		return s.responder.error(ctx, 404, codeNotFound, fmt.Sprintf("no such endpoint: %s %s", req.Method, req.Path)), false
	case resolution.Handler == nil:
		resp := s.responder.error(ctx, 405, codeMethodNotAllowed, "method not allowed for this path")
		resp.Header.Set("Allow", strings.Join(resolution.Allowed, ", "))
		return resp, false
	}

	if resolution.DayParam != "" {
		ctx = ContextWithDayParam(ctx, resolution.DayParam)
	}

	if resolution.RequiresAuth {
		principal, err := s.auth.ValidateToken(ctx, req.BearerToken())
		if err != nil {
			return s.responder.serviceError(ctx, err), false
		}
		ctx = ContextWithPrincipal(ctx, principal)
	}

	return resolution.Handler(ctx, req), false
}
