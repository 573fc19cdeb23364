package daemon

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/wppmanager/internal/config"
	"github.com/matheus3301/wppmanager/internal/lock"
	"github.com/matheus3301/wppmanager/internal/proxy"
	"go.uber.org/fx"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func testConfig() *config.Config {
	cfg := &config.Config{ListenAddr: "127.0.0.1:0", BackendURL: "http://127.0.0.1:1"}
	cfg.ApplyDefaults()
	return cfg
}

func TestDaemonLifecycle(t *testing.T) {
	// Use a short path to avoid macOS 104-char Unix socket limit.
	tmpDir, err := os.MkdirTemp("/tmp", "wppm-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	socketPath := filepath.Join(tmpDir, "d.sock")
	cfg := testConfig()

	lk, err := lock.Acquire(tmpDir, cfg.ListenAddr)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = lk.Release() }()

	logger := zap.NewNop()
	srv, err := NewServer(Params{Profile: "test", SocketPath: socketPath}, cfg, logger, proxy.New(cfg, nil, logger), lk)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	st, err := Probe(ctx, socketPath)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if st != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", st)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status = %d, body %s", resp.StatusCode, body)
	}

	srv.Stop(ctx)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned %v after Stop", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after Stop")
	}
	if _, err := os.Stat(socketPath); !os.IsNotExist(err) {
		t.Errorf("socket still present after Stop: %v", err)
	}
}

func TestProbeWithoutDaemon(t *testing.T) {
	tmpDir, err := os.MkdirTemp("/tmp", "wppm-probe-*")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := Probe(ctx, filepath.Join(tmpDir, "missing.sock")); err == nil {
		t.Error("Probe() against missing socket should fail")
	}
}

// TestFxModuleWiring verifies the fx dependency graph resolves without errors.
func TestFxModuleWiring(t *testing.T) {
	err := fx.ValidateApp(Module(Params{Profile: "fxtest", Config: testConfig()}))
	if err != nil {
		t.Fatalf("fx graph invalid: %v", err)
	}
}
