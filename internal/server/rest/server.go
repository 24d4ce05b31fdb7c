package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/blogauth/internal/logging"
)

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewHTTPServer(address string, h *Handler, l logging.Logger) *HTTPServer {
	return &HTTPServer{address: address, handler: NewRouter(h), logger: l.With("module", "http_server")}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}
