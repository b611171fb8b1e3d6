package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/argyee/cube-connect/internal/config"
	"github.com/argyee/cube-connect/internal/logging"
	"github.com/argyee/cube-connect/internal/room"
	"github.com/argyee/cube-connect/internal/ws"
)

func main() {
	app, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(app.Log)
	cfg := app.Server

	core := room.New(room.Config{
		DisconnectGrace: cfg.DisconnectGrace,
		EmptyLobbyTTL:   cfg.EmptyLobbyTTL,
		LobbyMaxAge:     cfg.LobbyMaxAge,
	})
	core.StartJanitor(context.Background(), cfg.SweepInterval)

	wsServer := ws.NewServer(core, cfg.AllowAnyOrigin)
	r := newRouter(cfg, wsServer)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
