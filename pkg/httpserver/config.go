package httpserver

import "time"

// Config carries the listener settings, loaded from the environment the same
// way the other service configs are.
type Config struct {
	// Addr is the listen address, host optional.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`
	// ReadTimeout bounds reading an entire request, including the body.
	ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	// WriteTimeout bounds writing a response.
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	// IdleTimeout bounds keep-alive waits between requests.
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	// ShutdownTimeout bounds draining in-flight requests on shutdown.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}
