package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/gobwas/ws"
)

type HTTPHandler struct {
	Hub *Hub
}

func NewHTTPServer(hub *Hub, config *Config) http.Handler {
	httpHandler := HTTPHandler{hub}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{"GET"},
		AllowCredentials: false,
	}))
	r.Use(middleware.RealIP)
	if config.RateLimitPerMinute > 0 {
		r.Use(httprate.Limit(config.RateLimitPerMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint)))
	}
	r.Use(middleware.Heartbeat("/"))

	r.Get("/ws", httpHandler.websocket())
	r.Get("/room/{roomID}", httpHandler.getRoom())
	r.Get("/room/{roomID}/events", httpHandler.getRoomEventStream())
	r.Handle("/metrics", MetricsHandler())
	return r
}

func (h HTTPHandler) websocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			LogErrorWhileUpgradingHTTP(err)
			return
		}
		defer conn.Close()
		player := NewPlayer(conn)
		logger := GetConnLogger(r.RemoteAddr, player.ID())
		logger.Connected()
		go player.WritePump()

		for {
			action, err := player.ReadAction()
			if err != nil {
				var syntaxErr *json.SyntaxError
				var typeErr *json.UnmarshalTypeError
				if errors.Is(err, ErrUndefinedType) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
					logger.BadMessage(err)
					h.Hub.fail(player, "Unknown", ErrUndefinedType)
					continue
				}
				break
			}
			h.Hub.Dispatch(player, action)
		}
		h.Hub.Disconnect(player)
		player.Close()
		logger.Disconnected()
	}
}

func (h HTTPHandler) getRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, exists := h.Hub.Room(chi.URLParam(r, "roomID"))
		if !exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(room.Snapshot())
	}
}

func (h HTTPHandler) getRoomEventStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "HTTP Streaming not supported!", http.StatusBadRequest)
			return
		}
		roomID := chi.URLParam(r, "roomID")
		spectator := NewSpectator()
		snapshot, err := h.Hub.Watch(spectator, roomID)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		receiverSSE := NewReceiverSSE(w, flusher)
		receiverSSE.SendEvent(RoomJoinedEvent(roomID, snapshot.Text, snapshot.Icons, ""))
		if len(snapshot.Scores) > 0 {
			receiverSSE.SendEvent(UpdateScoresEvent(snapshot.Scores))
		}
		logger := GetConnLogger(r.RemoteAddr, spectator.ID())
		logger.WatchingRoom(roomID)
		defer logger.StoppedWatching(roomID)

		for {
			select {
			case ev := <-spectator.events:
				receiverSSE.SendEvent(ev)
			case <-spectator.closed:
			drain:
				for {
					select {
					case ev := <-spectator.events:
						receiverSSE.SendEvent(ev)
					default:
						break drain
					}
				}
				receiverSSE.SendRoomClosedMessage()
				return
			case <-r.Context().Done():
				h.Hub.Disconnect(spectator)
				return
			}
		}
	}
}
