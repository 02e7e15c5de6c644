package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"typing-race/catalog"
)

func main() {
	config := MustLoadConfig()
	if err := SetupLogger(config.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("Invalid LOG_LEVEL")
	}

	cat := catalog.Default()
	if config.CatalogFile != "" {
		loaded, err := catalog.Load(config.CatalogFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", config.CatalogFile).Msg("Could not load catalog")
		}
		cat = loaded
	}

	hub := NewHub(HubOptions{
		Catalog:    cat,
		Timeout:    config.RoomTimeout,
		MaxPlayers: config.MaxPlayers,
		Rejoin:     NewReconnectJWT(config.JwtSecret, config.RoomTimeout),
	})
	server := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           NewHTTPServer(hub, config),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		// Ends spectator streams so Shutdown does not wait on them.
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	LogStartedServer(config.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
	<-stopped
	LogStoppedServer()
}
