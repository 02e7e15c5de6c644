package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

func SetupLogger(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

type ConnLogger struct {
	zerolog zerolog.Logger
}

func GetConnLogger(ip string, connID string) ConnLogger {
	return ConnLogger{log.With().Str("ip", ip).Str("conn-id", connID).Logger()}
}

func (l ConnLogger) Connected() {
	l.zerolog.Info().Msg("Connected")
}

func (l ConnLogger) Disconnected() {
	l.zerolog.Info().Msg("Disconnected")
}

func (l ConnLogger) WatchingRoom(roomID string) {
	l.zerolog.Info().Str("room-id", roomID).Msg("Watching room")
}

func (l ConnLogger) StoppedWatching(roomID string) {
	l.zerolog.Info().Str("room-id", roomID).Msg("Stopped watching room")
}

func (l ConnLogger) BadMessage(err error) {
	l.zerolog.Debug().Err(err).Msg("Bad message")
}

func LogCreatedRoom(roomID string, username string) {
	log.Info().Str("room-id", roomID).Str("username", username).Msg("Created")
}

func LogJoinedRoom(roomID string, username string) {
	log.Info().Str("room-id", roomID).Str("username", username).Msg("Joined")
}

func LogLeftRoom(roomID string, username string) {
	log.Info().Str("room-id", roomID).Str("username", username).Msg("Left")
}

func LogRejoinedRoom(roomID string, username string) {
	log.Info().Str("room-id", roomID).Str("username", username).Msg("Rejoined")
}

func LogIconCatalogExhausted(roomID string, username string) {
	log.Warn().Str("room-id", roomID).Str("username", username).Msg("Icon catalog exhausted, using fallback icon")
}

func LogRaceStarted(roomID string, replay bool) {
	log.Info().Str("room-id", roomID).Bool("replay", replay).Msg("Race started")
}

func LogRaceCompleted(roomID string, finishers []string) {
	log.Info().Str("room-id", roomID).Strs("finishers", finishers).Msg("Race completed")
}

func LogRoomExpired(roomID string) {
	log.Info().Str("room-id", roomID).Msg("Room expired")
}

func LogRejectedAction(action string, err error) {
	log.Debug().Str("action", action).Err(err).Msg("Rejected action")
}

func LogDroppedEvent(connID string, eventType string) {
	log.Warn().Str("conn-id", connID).Str("event", eventType).Msg("Send queue full, dropping event")
}

func LogStartedServer(port string) {
	log.Info().Msgf("Starting server on port %v", port)
}

func LogStoppedServer() {
	log.Info().Msg("Server stopped")
}

func LogErrorWhileUpgradingHTTP(err error) {
	log.Error().Err(err).Msg("Error while upgrading HTTP")
}
