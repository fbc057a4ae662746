package httpserver

import "errors"

var (
	// ErrStart wraps listener or startup failures returned by Run.
	ErrStart = errors.New("http server failed to start")
	// ErrShutdown wraps drain failures returned by Shutdown.
	ErrShutdown = errors.New("http server shutdown failed")
)
