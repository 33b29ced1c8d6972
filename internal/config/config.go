package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration, populated from the
// environment.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string `env:"DB_PATH" envDefault:"./data/fleet/fleet.db"`
	SeedDemo bool   `env:"SEED_DEMO_DATA" envDefault:"true"`

	RateLimit  int           `env:"RATE_LIMIT" envDefault:"120"`
	RateWindow time.Duration `env:"RATE_WINDOW" envDefault:"1m"`

	// Event bus for geofence violation alerts
	EventsEnabled  bool   `env:"EVENTS_ENABLED" envDefault:"false"`
	EventsEmbedded bool   `env:"EVENTS_EMBEDDED" envDefault:"true"`
	EventsPort     int    `env:"EVENTS_PORT" envDefault:"4222"`
	EventsURL      string `env:"EVENTS_URL" envDefault:"nats://localhost:4222"`

	// Playback timer loop: wall tick period and simulated milliseconds
	// advanced per tick at 1x speed.
	PlaybackTickPeriod    time.Duration `env:"PLAYBACK_TICK_PERIOD" envDefault:"200ms"`
	PlaybackSimStepMillis int64         `env:"PLAYBACK_SIM_STEP_MILLIS" envDefault:"60000"`
}

// Load parses the configuration from the environment
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
