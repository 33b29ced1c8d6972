// Package events carries geofence violation alerts over NATS. The server
// can be embedded for single-binary deployments or pointed at an external
// cluster.
package events

import (
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// Config for the event bus connection.
type Config struct {
	Embedded bool
	Port     int    // embedded server port; -1 picks a random free port
	URL      string // external server URL when Embedded is false
}

// Bus owns the optional embedded server and the client connection.
type Bus struct {
	srv *server.Server
	nc  *nats.Conn
}

// Connect starts the embedded server if requested and establishes the
// client connection.
func Connect(cfg Config) (*Bus, error) {
	bus := &Bus{}

	url := cfg.URL
	if cfg.Embedded {
		opts := &server.Options{Port: cfg.Port}
		srv, err := server.NewServer(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedded NATS server: %w", err)
		}
		srv.ConfigureLogger()
		go srv.Start()
		if !srv.ReadyForConnections(10 * time.Second) {
			return nil, fmt.Errorf("embedded NATS server not ready for connections")
		}
		bus.srv = srv
		url = srv.ClientURL()
		log.Printf("Embedded NATS server started at %s", url)
	}

	nc, err := nats.Connect(url,
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Printf("NATS error: %v", err)
		}),
	)
	if err != nil {
		bus.Shutdown()
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	bus.nc = nc

	return bus, nil
}

// Conn exposes the client connection.
func (b *Bus) Conn() *nats.Conn {
	return b.nc
}

// Shutdown closes the connection and stops the embedded server if one is
// running.
func (b *Bus) Shutdown() {
	if b.nc != nil {
		b.nc.Close()
	}
	if b.srv != nil {
		b.srv.Shutdown()
		b.srv.WaitForShutdown()
	}
}
