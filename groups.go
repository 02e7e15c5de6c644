package main

import "sync"

type membership struct {
	roomID   string
	username string
}

// Groups tracks which connections receive a room's broadcasts. A connection belongs to
// at most one room; spectators join with an empty username.
type Groups struct {
	rooms   map[string]map[string]Conn
	members map[string]membership
	lock    sync.RWMutex
}

func NewGroups() *Groups {
	return &Groups{
		rooms:   make(map[string]map[string]Conn),
		members: make(map[string]membership),
	}
}

// Join adds c to roomID and returns the membership it replaced, if any.
func (g *Groups) Join(c Conn, roomID, username string) (membership, bool) {
	g.lock.Lock()
	defer g.lock.Unlock()
	prev, had := g.members[c.ID()]
	if had {
		g.removeLocked(c.ID(), prev.roomID)
	}
	conns, ok := g.rooms[roomID]
	if !ok {
		conns = make(map[string]Conn)
		g.rooms[roomID] = conns
	}
	conns[c.ID()] = c
	g.members[c.ID()] = membership{roomID: roomID, username: username}
	return prev, had
}

func (g *Groups) Leave(c Conn) (membership, bool) {
	g.lock.Lock()
	defer g.lock.Unlock()
	m, ok := g.members[c.ID()]
	if !ok {
		return membership{}, false
	}
	g.removeLocked(c.ID(), m.roomID)
	return m, true
}

func (g *Groups) removeLocked(connID, roomID string) {
	delete(g.members, connID)
	conns := g.rooms[roomID]
	delete(conns, connID)
	if len(conns) == 0 {
		delete(g.rooms, roomID)
	}
}

// Drop forgets the whole group and returns the connections that were in it.
func (g *Groups) Drop(roomID string) []Conn {
	g.lock.Lock()
	defer g.lock.Unlock()
	conns := make([]Conn, 0, len(g.rooms[roomID]))
	for id, c := range g.rooms[roomID] {
		delete(g.members, id)
		conns = append(conns, c)
	}
	delete(g.rooms, roomID)
	return conns
}

// Broadcast hands ev to every connection in the room. Conn.Send never blocks, so the
// snapshot is taken under the read lock and delivered after releasing it.
func (g *Groups) Broadcast(roomID string, ev Event) int {
	g.lock.RLock()
	conns := make([]Conn, 0, len(g.rooms[roomID]))
	for _, c := range g.rooms[roomID] {
		conns = append(conns, c)
	}
	g.lock.RUnlock()

	for _, c := range conns {
		c.Send(ev)
	}
	return len(conns)
}

// HasMember reports whether any connection in roomID speaks for username.
func (g *Groups) HasMember(roomID, username string) bool {
	g.lock.RLock()
	defer g.lock.RUnlock()
	for id := range g.rooms[roomID] {
		if g.members[id].username == username {
			return true
		}
	}
	return false
}

func (g *Groups) Size(roomID string) int {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return len(g.rooms[roomID])
}
