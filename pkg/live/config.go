package live

import (
	"net/http"
	"time"
)

// Config holds the live server configuration.
type Config struct {
	// Address to listen on (e.g., ":8080").
	Address string

	// FrameInterval is the scheduler tick: value mutations queued by
	// reactive updates are flushed into one patch frame per tick.
	FrameInterval time.Duration

	// ReadTimeout for client messages; also bounds pong latency.
	ReadTimeout time.Duration

	// WriteTimeout for outgoing frames.
	WriteTimeout time.Duration

	// PingInterval between keepalive pings. Must be below ReadTimeout.
	PingInterval time.Duration

	// ReadBufferSize and WriteBufferSize for the websocket upgrader.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates the websocket handshake origin. Defaults to
	// same-origin.
	CheckOrigin func(r *http.Request) bool

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:         ":8080",
		FrameInterval:   16 * time.Millisecond,
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    10 * time.Second,
		PingInterval:    30 * time.Second,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		ShutdownTimeout: 10 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.FrameInterval == 0 {
		c.FrameInterval = d.FrameInterval
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.PingInterval == 0 {
		c.PingInterval = d.PingInterval
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = d.WriteBufferSize
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}
