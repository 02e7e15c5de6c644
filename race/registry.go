package race

import "sync"

// Registry maps room ids to rooms. It only guards the map; each room guards itself.
type Registry struct {
	rooms map[string]*Room
	lock  sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

func (r *Registry) Create(room *Room) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, exists := r.rooms[room.ID]; exists {
		return ErrRoomExists
	}
	r.rooms[room.ID] = room
	return nil
}

// CreateUnique keeps drawing ids from generate until one is free, builds the room for it
// and registers it in the same critical section.
func (r *Registry) CreateUnique(generate func() string, build func(id string) *Room) *Room {
	r.lock.Lock()
	defer r.lock.Unlock()
	var id string
	for {
		id = generate()
		if _, exists := r.rooms[id]; !exists {
			break
		}
	}
	room := build(id)
	r.rooms[id] = room
	return room
}

func (r *Registry) Get(id string) (*Room, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	room, exists := r.rooms[id]
	return room, exists
}

// Remove deletes id and reports whether it was present. Removing a missing id is a no-op.
func (r *Registry) Remove(id string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, exists := r.rooms[id]; !exists {
		return false
	}
	delete(r.rooms, id)
	return true
}

func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.rooms)
}

// Rooms returns the registered rooms at the time of the call.
func (r *Registry) Rooms() []*Room {
	r.lock.RLock()
	defer r.lock.RUnlock()
	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}
