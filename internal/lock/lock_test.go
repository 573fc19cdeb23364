package lock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireAndRelease(t *testing.T) {
	tmpDir := t.TempDir()

	l, err := Acquire(tmpDir, "127.0.0.1:8787")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	info, err := Read(tmpDir)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if info.PID != os.Getpid() {
		t.Errorf("PID = %d, want %d", info.PID, os.Getpid())
	}
	if info.Addr != "127.0.0.1:8787" {
		t.Errorf("Addr = %q", info.Addr)
	}
	if info.Since.IsZero() {
		t.Error("Since not recorded")
	}

	if err := l.Release(); err != nil {
		t.Errorf("Release() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "LOCK")); !os.IsNotExist(err) {
		t.Error("lock file not removed on release")
	}
}

func TestDoubleAcquireFails(t *testing.T) {
	tmpDir := t.TempDir()

	l1, err := Acquire(tmpDir, "127.0.0.1:9000")
	if err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	defer func() { _ = l1.Release() }()

	_, err = Acquire(tmpDir, "127.0.0.1:9001")
	if err == nil {
		t.Fatal("second Acquire() should fail")
	}

	var lockErr *LockHeldError
	if !errors.As(err, &lockErr) {
		t.Fatalf("expected LockHeldError, got %T: %v", err, err)
	}
	if lockErr.Addr != "127.0.0.1:9000" || lockErr.PID != os.Getpid() {
		t.Errorf("LockHeldError = %+v", lockErr)
	}
}

func TestReadMissing(t *testing.T) {
	if _, err := Read(t.TempDir()); !os.IsNotExist(err) {
		t.Errorf("Read() error = %v, want not-exist", err)
	}
}

func TestParse(t *testing.T) {
	info := parse("pid=42\naddr=[::1]:80\ngarbage\ntime=bad\n")
	if info.PID != 42 || info.Addr != "[::1]:80" || !info.Since.IsZero() {
		t.Errorf("parse() = %+v", info)
	}
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Errorf("nil Release() error = %v", err)
	}
}

func TestReleaseIdempotent(t *testing.T) {
	tmpDir := t.TempDir()

	l, err := Acquire(tmpDir, "")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if err := l.Release(); err != nil {
		t.Errorf("first Release() error = %v", err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
}
