package httpserver_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shiftops/authcore/pkg/httpserver"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

// startServer runs srv with handler in the background and returns the Run
// result channel plus a cancel for the run context.
func startServer(t *testing.T, srv *httpserver.Server, handler http.Handler) (<-chan error, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, handler) }()
	return done, cancel
}

func waitForServer(t *testing.T, url string) *http.Response {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			return resp
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("server at %s never came up", url)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestServerServesAndShutsDown(t *testing.T) {
	t.Parallel()

	addr := freeAddr(t)
	srv := httpserver.New(httpserver.Config{Addr: addr, ShutdownTimeout: 2 * time.Second}, discardLogger())

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	done, cancel := startServer(t, srv, handler)
	defer cancel()

	resp := waitForServer(t, "http://"+addr+"/")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServerRunNilHandler(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.Config{Addr: freeAddr(t)}, nil)
	err := srv.Run(context.Background(), nil)
	require.ErrorIs(t, err, httpserver.ErrStart)
}

func TestServerRunTwice(t *testing.T) {
	t.Parallel()

	addr := freeAddr(t)
	srv := httpserver.New(httpserver.Config{Addr: addr, ShutdownTimeout: time.Second}, nil)

	done, cancel := startServer(t, srv, http.NotFoundHandler())
	defer cancel()
	waitForServer(t, "http://"+addr+"/").Body.Close()

	err := srv.Run(context.Background(), http.NotFoundHandler())
	require.ErrorIs(t, err, httpserver.ErrStart)

	cancel()
	require.NoError(t, <-done)
}

func TestServerRunListenFailure(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	srv := httpserver.New(httpserver.Config{Addr: l.Addr().String()}, nil)
	err = srv.Run(context.Background(), http.NotFoundHandler())
	require.ErrorIs(t, err, httpserver.ErrStart)
}

func TestServerShutdownIdempotent(t *testing.T) {
	t.Parallel()

	addr := freeAddr(t)
	srv := httpserver.New(httpserver.Config{Addr: addr, ShutdownTimeout: time.Second}, nil)

	// Shutdown before Run is a no-op.
	require.NoError(t, srv.Shutdown(context.Background()))

	done, cancel := startServer(t, srv, http.NotFoundHandler())
	defer cancel()
	waitForServer(t, "http://"+addr+"/").Body.Close()

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, <-done)
}

func TestServerDrainsInflightRequests(t *testing.T) {
	t.Parallel()

	addr := freeAddr(t)
	srv := httpserver.New(httpserver.Config{Addr: addr, ShutdownTimeout: 5 * time.Second}, discardLogger())

	inHandler := make(chan struct{})
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			close(inHandler)
			<-release
		}
		fmt.Fprint(w, "done")
	})

	done, cancel := startServer(t, srv, handler)
	defer cancel()
	waitForServer(t, "http://"+addr+"/").Body.Close()

	slowResp := make(chan *http.Response, 1)
	go func() {
		resp, err := http.Get("http://" + addr + "/slow")
		if err == nil {
			slowResp <- resp
		}
	}()

	<-inHandler
	cancel()
	time.Sleep(50 * time.Millisecond)
	close(release)

	select {
	case resp := <-slowResp:
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, "done", string(body))
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight request was dropped during shutdown")
	}
	require.NoError(t, <-done)
}

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	httpserver.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ALIVE", rec.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	t.Run("all checks pass", func(t *testing.T) {
		t.Parallel()
		called := 0
		check := func(ctx context.Context) error {
			called++
			return nil
		}

		rec := httptest.NewRecorder()
		httpserver.ReadinessHandler(discardLogger(), check, check)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "READY", rec.Body.String())
		require.Equal(t, 2, called)
	})

	t.Run("no checks", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		httpserver.ReadinessHandler(discardLogger())(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("failing check", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		failing := func(ctx context.Context) error { return fmt.Errorf("connection refused") }
		httpserver.ReadinessHandler(discardLogger(), failing)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Equal(t, "NOT_READY", rec.Body.String())
	})
}
