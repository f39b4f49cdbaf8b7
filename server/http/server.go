package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/w-h-a/supportdesk/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type httpServer struct {
	options server.Options
	handler http.Handler
	srv     *http.Server
	addr    string
	mtx     sync.RWMutex
	errCh   chan error
}

func (s *httpServer) Options() server.Options {
	return s.options
}

func (s *httpServer) Handle(handler any) error {
	h, ok := handler.(http.Handler)
	if !ok {
		return fmt.Errorf("http server expects an http.Handler, got %T", handler)
	}

	if ms, ok := MiddlewareFrom(s.options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			h = ms[i](h)
		}
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.handler = otelhttp.NewHandler(h, s.options.Name)

	return nil
}

func (s *httpServer) Start() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.handler == nil {
		return errors.New("no handler registered")
	}

	if s.srv != nil {
		return errors.New("server already started")
	}

	ln, err := net.Listen("tcp", s.options.Address)
	if err != nil {
		return err
	}

	s.addr = ln.Addr().String()
	s.srv = &http.Server{Handler: s.handler}
	s.errCh = make(chan error, 1)

	go func(srv *http.Server, errCh chan error) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", "error", err)
			errCh <- err
		}
		close(errCh)
	}(s.srv, s.errCh)

	slog.Info("http server listening", "name", s.options.Name, "version", s.options.Version, "address", s.addr)

	return nil
}

func (s *httpServer) Stop() error {
	s.mtx.Lock()
	srv, errCh := s.srv, s.errCh
	s.srv = nil
	s.mtx.Unlock()

	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	return <-errCh
}

// Addr reports the bound address once started, which matters for ":0".
func (s *httpServer) Addr() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.addr
}

func (s *httpServer) String() string {
	return "http"
}

func NewServer(opts ...server.Option) server.Server {
	options := server.NewOptions(opts...)

	return &httpServer{
		options: options,
		mtx:     sync.RWMutex{},
	}
}
