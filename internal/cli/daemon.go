package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/matheus3301/wppmanager/internal/daemon"
	"github.com/matheus3301/wppmanager/internal/lock"
	"github.com/matheus3301/wppmanager/internal/session"
	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var daemonCmd = &cobra.Command{
	Use:         "daemon",
	Short:       "Control the local proxy daemon",
	Annotations: map[string]string{annotationAuth: "none"},
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the proxy daemon is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
		defer cancel()

		status, probeErr := daemon.Probe(ctx, session.SocketPath(profile))
		info, lockErr := lock.Read(session.Dir(profile))
		if lockErr != nil && !errors.Is(lockErr, fs.ErrNotExist) {
			return lockErr
		}

		if jsonOut {
			out := map[string]any{"profile": profile, "status": status.String()}
			if info != nil {
				out["pid"] = info.PID
				out["addr"] = info.Addr
				out["since"] = info.Since
			}
			return outputJSON(out)
		}

		fmt.Fprintf(stdout, "Profile: %s\n", profile)
		if probeErr != nil || status != healthpb.HealthCheckResponse_SERVING {
			fmt.Fprintln(stdout, "Daemon:  not running")
			log.Sugar().Debugw("daemon probe failed", "status", status.String(), "error", probeErr)
			return nil
		}
		fmt.Fprintln(stdout, "Daemon:  running")
		if info != nil {
			fmt.Fprintf(stdout, "PID:     %d\n", info.PID)
			fmt.Fprintf(stdout, "Listen:  http://%s\n", info.Addr)
			fmt.Fprintf(stdout, "Since:   %s\n", info.Since.Local().Format(time.DateTime))
		}
		return nil
	},
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the proxy daemon in the background",
	RunE: func(cmd *cobra.Command, args []string) error {
		socketPath := session.SocketPath(profile)
		if probeDaemon(cmd.Context(), socketPath) {
			fmt.Fprintln(stdout, "Daemon already running.")
			return nil
		}
		if err := startDaemon(profile); err != nil {
			return fmt.Errorf("failed to start daemon: %w", err)
		}
		if !waitForDaemon(cmd.Context(), socketPath, 10*time.Second) {
			return errors.New("daemon did not become ready")
		}
		fmt.Fprintln(stdout, "Daemon started.")
		return nil
	},
}

func init() {
	daemonCmd.AddCommand(daemonStatusCmd, daemonStartCmd)
}

func probeDaemon(ctx context.Context, socketPath string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	status, err := daemon.Probe(ctx, socketPath)
	return err == nil && status == healthpb.HealthCheckResponse_SERVING
}

func startDaemon(profile string) error {
	executable, err := os.Executable()
	if err != nil {
		return err
	}
	bin := filepath.Join(filepath.Dir(executable), "wppmanagerd")
	if _, err := os.Stat(bin); err != nil {
		bin = "wppmanagerd"
	}

	cmd := exec.Command(bin, "--profile", profile)
	// Inherit stderr so daemon startup errors are visible.
	cmd.Stderr = os.Stderr
	return cmd.Start()
}

// waitForDaemon polls the daemon with a real gRPC health check (not just socket connect).
func waitForDaemon(ctx context.Context, socketPath string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if probeDaemon(ctx, socketPath) {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(300 * time.Millisecond):
		}
	}
	return false
}
