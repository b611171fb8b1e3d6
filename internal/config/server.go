package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Supervisor timings for the room core.
	DisconnectGrace time.Duration `env:"DISCONNECT_GRACE" envDefault:"2m"`
	EmptyLobbyTTL   time.Duration `env:"EMPTY_LOBBY_TTL" envDefault:"10m"`
	LobbyMaxAge     time.Duration `env:"LOBBY_MAX_AGE" envDefault:"1h"`
	SweepInterval   time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`

	AllowAnyOrigin bool `env:"ALLOW_ANY_ORIGIN" envDefault:"false"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
