package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rzbill/tracker/internal/project"
	"github.com/rzbill/tracker/internal/runtime"
	"github.com/rzbill/tracker/internal/server/http/controllers"
	"github.com/rzbill/tracker/pkg/log"
)

const shutdownTimeout = 5 * time.Second

// Server serves the worker API and the operational endpoints over HTTP.
type Server struct {
	rt     *runtime.Runtime
	srv    *http.Server
	lis    net.Listener
	logger log.Logger
}

// New builds a server for the projects in reg.
func New(rt *runtime.Runtime, reg *project.Registry, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewLogger()
	}
	mux := http.NewServeMux()
	controllers.NewControllerRegistry(rt, reg, logger).RegisterAllRoutes(mux)
	s := &Server{rt: rt, logger: logger.WithComponent("http")}
	s.srv = &http.Server{
		Handler:           cors(requestLog(s.logger, mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          log.ToStdLogger(s.logger),
	}
	return s
}

// Handler exposes the full middleware chain.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve serves on an existing listener until ctx is canceled.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.lis = l
	s.logger.Info("http listening", log.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}
