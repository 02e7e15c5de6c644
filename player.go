package main

import (
	"encoding/json"
	"net"
	"sync"

	"github.com/gobwas/ws/wsutil"
	"github.com/google/uuid"
)

const sendQueueSize = 64

// Player is a racer's websocket connection. Outgoing events are queued and written by
// WritePump so that broadcasts never wait on a slow socket.
type Player struct {
	id        string
	conn      net.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewPlayer(conn net.Conn) *Player {
	return &Player{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
}

func (p *Player) ID() string {
	return p.id
}

func (p *Player) Send(ev Event) {
	encoded, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case <-p.done:
	case p.send <- encoded:
	default:
		eventsDropped.Inc()
		LogDroppedEvent(p.id, ev.Type)
	}
}

// WritePump writes queued events until the player is closed or a write fails.
func (p *Player) WritePump() {
	for {
		select {
		case msg := <-p.send:
			if err := wsutil.WriteServerText(p.conn, msg); err != nil {
				p.Close()
				return
			}
		case <-p.done:
			return
		}
	}
}

// ReadAction blocks for the next client message and returns one of the Action structs.
func (p *Player) ReadAction() (any, error) {
	msg, err := wsutil.ReadClientText(p.conn)
	if err != nil {
		return nil, err
	}
	return ParseAction(msg)
}

func (p *Player) Close() {
	p.closeOnce.Do(func() { close(p.done) })
}
