//go:build unix

package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"syscall"
	"testing"
	"time"
)

// startServe runs the serve command with the given port in the background
// and returns a channel that receives its result.
func startServe(t *testing.T, port int) <-chan error {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "selfhelp.yaml")
	if err := writeConfig(cfgPath, "server:\n  port: "+strconv.Itoa(port)+"\n  shutdown_timeout: 1s\n"); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SELFHELP_CONFIG_PATH", cfgPath)
	t.Setenv("SELFHELP_LOG_LEVEL", "error")

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	done := make(chan error, 1)
	go func() {
		_, _, err := executeCmd(t, "serve")
		done <- err
	}()
	return done
}

func waitServe(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not shut down")
	}
}

func TestServe_ShutsDownOnListenFailure(t *testing.T) {
	isolate(t)

	// Given: the configured port is already taken
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	// Then: the listen error triggers the normal shutdown path
	waitServe(t, startServe(t, l.Addr().(*net.TCPAddr).Port))
}

func TestServe_HealthThenSignal(t *testing.T) {
	isolate(t)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	done := startServe(t, port)

	url := "http://127.0.0.1:" + strconv.Itoa(port) + "/api/v1/health"
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("health status = %d, want 200", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never became reachable: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	// The signal handler is registered before the server starts listening.
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGINT); err != nil {
		t.Fatal(err)
	}
	waitServe(t, done)
}

func TestGracefulShutdownDrainsRequests(t *testing.T) {
	handled := make(chan struct{})
	slowHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		close(handled)
	})

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := &http.Server{Handler: slowHandler}
	go srv.Serve(l)

	respDone := make(chan error, 1)
	go func() {
		resp, err := http.Get("http://" + l.Addr().String())
		if err == nil {
			resp.Body.Close()
		}
		respDone <- err
	}()

	time.Sleep(20 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	select {
	case <-handled:
	default:
		t.Error("shutdown returned before in-flight request finished")
	}
	if err := <-respDone; err != nil {
		t.Errorf("in-flight request failed: %v", err)
	}
}
