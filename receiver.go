package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

type ReceiverSSE struct {
	w http.ResponseWriter
	f http.Flusher
}

func NewReceiverSSE(w http.ResponseWriter, f http.Flusher) *ReceiverSSE {
	return &ReceiverSSE{w, f}
}

func (r ReceiverSSE) SendByteSlice(msg []byte) {
	fmt.Fprintf(r.w, "data: %v\n\n", string(msg))
	r.f.Flush()
}

func (r ReceiverSSE) sendJSON(msg any) {
	data, _ := json.Marshal(msg)
	r.SendByteSlice(data)
}

func (r ReceiverSSE) SendEvent(ev Event) {
	r.sendJSON(ev)
}

func (r ReceiverSSE) SendRoomClosedMessage() {
	r.sendJSON(struct {
		Type string `json:"type"`
	}{Type: "close"})
}

// Spectator follows a room's broadcasts over server-sent events without racing.
type Spectator struct {
	id        string
	events    chan Event
	closed    chan struct{}
	closeOnce sync.Once
}

func NewSpectator() *Spectator {
	return &Spectator{
		id:     uuid.NewString(),
		events: make(chan Event, sendQueueSize),
		closed: make(chan struct{}),
	}
}

func (s *Spectator) ID() string {
	return s.id
}

func (s *Spectator) Send(ev Event) {
	select {
	case <-s.closed:
	case s.events <- ev:
	default:
		eventsDropped.Inc()
		LogDroppedEvent(s.id, ev.Type)
	}
}

func (s *Spectator) RoomClosed() {
	s.closeOnce.Do(func() { close(s.closed) })
}
