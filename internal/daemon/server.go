package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/matheus3301/wppmanager/internal/config"
	"github.com/matheus3301/wppmanager/internal/lock"
	"github.com/matheus3301/wppmanager/internal/proxy"
	"github.com/matheus3301/wppmanager/internal/session"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ProxyService is the health service name reported for the HTTP proxy.
const ProxyService = "wppmanager.proxy"

// Server runs the HTTP proxy and the gRPC health service for a profile.
type Server struct {
	httpServer   *http.Server
	httpListener net.Listener
	grpcServer   *grpc.Server
	grpcListener net.Listener
	health       *health.Server
	socketPath   string
	logger       *zap.Logger
}

// NewServer binds the proxy to cfg.ListenAddr and the health service to the
// profile's Unix domain socket. The lock parameter orders construction after
// lock acquisition.
func NewServer(p Params, cfg *config.Config, logger *zap.Logger, px *proxy.Proxy, _ *lock.Lock) (*Server, error) {
	socketPath := p.SocketPath
	if socketPath == "" {
		socketPath = session.SocketPath(p.Profile)
	}

	// Clean stale socket if it exists.
	if _, err := os.Stat(socketPath); err == nil {
		_ = os.Remove(socketPath)
	}

	grpcListener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listen unix socket: %w", err)
	}
	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = grpcListener.Close()
		return nil, fmt.Errorf("chmod socket: %w", err)
	}

	httpListener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		_ = grpcListener.Close()
		_ = os.Remove(socketPath)
		return nil, fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
	}

	hs := health.NewServer()
	grpcSrv := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, hs)

	return &Server{
		httpServer:   &http.Server{Handler: px.Handler()},
		httpListener: httpListener,
		grpcServer:   grpcSrv,
		grpcListener: grpcListener,
		health:       hs,
		socketPath:   socketPath,
		logger:       logger,
	}, nil
}

// Addr returns the address the HTTP proxy is listening on.
func (s *Server) Addr() string {
	return s.httpListener.Addr().String()
}

// Start serves both listeners. Blocks until stopped.
func (s *Server) Start() error {
	s.logger.Info("server starting",
		zap.String("http", s.Addr()),
		zap.String("socket", s.socketPath),
	)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ProxyService, healthpb.HealthCheckResponse_SERVING)

	var g errgroup.Group
	g.Go(func() error {
		return s.grpcServer.Serve(s.grpcListener)
	})
	g.Go(func() error {
		if err := s.httpServer.Serve(s.httpListener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	return g.Wait()
}

// Stop drains the proxy, stops the health service, and removes the socket file.
func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("server stopping")
	s.health.Shutdown()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("http shutdown", zap.Error(err))
	}
	s.grpcServer.GracefulStop()
	_ = os.Remove(s.socketPath)
}
