package daemon

import (
	"context"

	"github.com/matheus3301/wppmanager/internal/config"
	"github.com/matheus3301/wppmanager/internal/lock"
	"github.com/matheus3301/wppmanager/internal/logging"
	"github.com/matheus3301/wppmanager/internal/proxy"
	"github.com/matheus3301/wppmanager/internal/session"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	Profile    string
	SocketPath string         // optional override for testing; empty = use default
	Config     *config.Config // optional override; nil = resolve from disk and env
}

// Module returns the fx module for the daemon, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideLock,
			provideProxy,
			NewServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	if p.Config != nil {
		return p.Config, nil
	}
	return config.Resolve(session.ConfigPath(), session.DotEnvPath())
}

func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	if err := session.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	return logging.New(session.DaemonLogPath(p.Profile), p.Profile, cfg.LogLevel)
}

func provideLock(p Params, cfg *config.Config, logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring profile lock", zap.String("profile", p.Profile))
	l, err := lock.Acquire(session.Dir(p.Profile), cfg.ListenAddr)
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideProxy(cfg *config.Config, logger *zap.Logger) *proxy.Proxy {
	if !cfg.GatewayConfigured() {
		logger.Warn("gateway not configured, /api/connect will report misconfiguration")
	}
	logger.Info("proxy configured",
		zap.String("backend", cfg.BackendURL),
		zap.Duration("timeout", cfg.RequestTimeout.Duration),
	)
	return proxy.New(cfg, nil, logger.Named("proxy"))
}

// registerLifecycle takes *lock.Lock so the lock is held before the server
// binds its socket.
func registerLifecycle(lc fx.Lifecycle, srv *Server, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			srv.Stop(ctx)
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
