package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Empty disables the results archive; live rooms never touch Postgres.
	PostgresDSN string `env:"POSTGRES_DSN"`

	RoomTTL         time.Duration `env:"ROOM_TTL" envDefault:"30m"`
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL" envDefault:"1m"`
	PumpInterval    time.Duration `env:"PUMP_INTERVAL" envDefault:"1s"`
	EventBufferMax  int           `env:"EVENT_BUFFER_MAX" envDefault:"500"`
	SSEPingInterval time.Duration `env:"SSE_PING_INTERVAL" envDefault:"15s"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
