package main

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"typing-race/catalog"
	"typing-race/code"
	"typing-race/race"
)

const maxUsernameLength = 32

var (
	ErrUsernameRequired = errors.New("username required")
	ErrUsernameTooLong  = errors.New("username too long")
)

// Conn is one client connection as the hub sees it. Send must not block.
type Conn interface {
	ID() string
	Send(ev Event)
}

// roomCloser is implemented by connections that end when their room goes away.
type roomCloser interface {
	RoomClosed()
}

type HubOptions struct {
	Catalog    *catalog.Catalog
	Timeout    time.Duration
	MaxPlayers int
	// Rejoin signs rejoin keys; nil disables rejoining.
	Rejoin *ReconnectJWT
	// NewCode generates room ids. Defaults to code.GenerateRandom.
	NewCode func() string
	// ValidID rejects ids NewCode could never produce. Defaults to code.Valid when
	// NewCode is not set, otherwise every id is looked up.
	ValidID func(id string) bool
}

// Hub validates client actions, applies them to rooms and decides who hears about it:
// the calling connection only, or everyone in the room.
type Hub struct {
	rooms      *race.Registry
	groups     *Groups
	catalog    *catalog.Catalog
	timeout    time.Duration
	maxPlayers int
	rejoin     *ReconnectJWT
	newCode    func() string
	validID    func(id string) bool
}

func NewHub(opts HubOptions) *Hub {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	newCode, validID := opts.NewCode, opts.ValidID
	if newCode == nil {
		newCode = code.GenerateRandom
		if validID == nil {
			validID = code.Valid
		}
	}
	if validID == nil {
		validID = func(string) bool { return true }
	}
	return &Hub{
		rooms:      race.NewRegistry(),
		groups:     NewGroups(),
		catalog:    cat,
		timeout:    opts.Timeout,
		maxPlayers: opts.MaxPlayers,
		rejoin:     opts.Rejoin,
		newCode:    newCode,
		validID:    validID,
	}
}

func (h *Hub) Dispatch(c Conn, action any) {
	switch a := action.(type) {
	case CreateRoomAction:
		h.CreateRoom(c, a.Username)
	case JoinRoomAction:
		h.JoinRoom(c, a.RoomID, a.Username)
	case StartGameAction:
		h.StartGame(c, a.RoomID)
	case UpdateProgressAction:
		h.UpdateProgress(c, a.RoomID, a.Username, a.Score)
	case RejoinAction:
		h.Rejoin(c, a.RejoinKey)
	default:
		h.fail(c, "Unknown", ErrUndefinedType)
	}
}

func (h *Hub) CreateRoom(c Conn, username string) {
	username, err := normalizeUsername(username)
	if err != nil {
		h.fail(c, "CreateRoom", err)
		return
	}
	room := h.rooms.CreateUnique(h.newCode, h.newRoom)
	res, err := room.Join(username)
	if err != nil {
		room.Close()
		h.rooms.Remove(room.ID)
		h.fail(c, "CreateRoom", err)
		return
	}
	roomsActive.Set(float64(h.rooms.Len()))
	h.attach(c, room.ID, username)
	c.Send(RoomCreatedEvent(room.ID, res.Text, res.Icons, h.rejoinKey(room.ID, username)))
	observeAction("CreateRoom", nil)
	LogCreatedRoom(room.ID, username)
}

func (h *Hub) newRoom(id string) *race.Room {
	return race.NewRoom(race.Options{
		ID:           id,
		Text:         h.catalog.RandomParagraph(),
		Icons:        h.catalog.IconSet(),
		FallbackIcon: h.catalog.FallbackIcon,
		Timeout:      h.timeout,
		MaxPlayers:   h.maxPlayers,
		Paragraphs:   h.catalog,
		OnExpire:     h.expireRoom,
	})
}

func (h *Hub) JoinRoom(c Conn, roomID string, username string) {
	username, err := normalizeUsername(username)
	if err != nil {
		h.fail(c, "JoinRoom", err)
		return
	}
	room, ok := h.lookup(roomID)
	if !ok {
		h.fail(c, "JoinRoom", race.ErrRoomNotFound)
		return
	}
	res, err := room.Join(username)
	if err != nil {
		h.fail(c, "JoinRoom", err)
		return
	}
	if res.Fallback {
		LogIconCatalogExhausted(roomID, username)
	}
	h.attach(c, roomID, username)
	c.Send(RoomJoinedEvent(roomID, res.Text, res.Icons, h.rejoinKey(roomID, username)))
	h.groups.Broadcast(roomID, UserJoinedEvent(username, res.Icon))
	observeAction("JoinRoom", nil)
	LogJoinedRoom(roomID, username)
}

func (h *Hub) StartGame(c Conn, roomID string) {
	room, ok := h.lookup(roomID)
	if !ok {
		h.fail(c, "StartGame", race.ErrRoomNotFound)
		return
	}
	res, err := room.StartRace()
	if err != nil {
		h.fail(c, "StartGame", err)
		return
	}
	if res.Replay {
		h.groups.Broadcast(roomID, NewTextGeneratedEvent(res.Text))
	}
	h.groups.Broadcast(roomID, StartCountdownEvent())
	observeAction("StartGame", nil)
	LogRaceStarted(roomID, res.Replay)
}

func (h *Hub) UpdateProgress(c Conn, roomID string, username string, score int) {
	username, err := normalizeUsername(username)
	if err != nil {
		h.fail(c, "UpdateProgress", err)
		return
	}
	room, ok := h.lookup(roomID)
	if !ok {
		h.fail(c, "UpdateProgress", race.ErrRoomNotFound)
		return
	}
	res, err := room.RecordProgress(username, score)
	if err != nil {
		h.fail(c, "UpdateProgress", err)
		return
	}
	// Sent after the room lock is released, so concurrent updates may arrive out of order.
	h.groups.Broadcast(roomID, UpdateScoresEvent(res.Scores))
	if res.Finished {
		h.groups.Broadcast(roomID, WinnerAnnouncedEvent(username, res.Place, res.Elapsed))
	}
	if res.Completed {
		h.groups.Broadcast(roomID, RaceCompletedEvent(res.Finishers))
		LogRaceCompleted(roomID, res.Finishers)
	}
	observeAction("UpdateProgress", nil)
}

// Rejoin puts a connection back into the room named by a rejoin key, as long as the
// user is still a participant. Unlike JoinRoom it works while a race is running.
func (h *Hub) Rejoin(c Conn, rejoinKey string) {
	if h.rejoin == nil {
		h.fail(c, "Rejoin", ErrInvalidRejoinKey)
		return
	}
	claims, err := h.rejoin.ParseRejoinKey(rejoinKey)
	if err != nil {
		h.fail(c, "Rejoin", err)
		return
	}
	room, ok := h.lookup(claims.RoomID)
	if !ok {
		h.fail(c, "Rejoin", race.ErrRoomNotFound)
		return
	}
	if _, ok := room.Participant(claims.Username); !ok {
		h.fail(c, "Rejoin", race.ErrNotParticipant)
		return
	}
	h.attach(c, room.ID, claims.Username)
	snapshot := room.Snapshot()
	c.Send(RoomJoinedEvent(room.ID, snapshot.Text, snapshot.Icons, rejoinKey))
	if len(snapshot.Scores) > 0 {
		c.Send(UpdateScoresEvent(snapshot.Scores))
	}
	observeAction("Rejoin", nil)
	LogRejoinedRoom(room.ID, claims.Username)
}

// Watch subscribes a read-only connection to a room's broadcasts.
func (h *Hub) Watch(c Conn, roomID string) (race.Snapshot, error) {
	room, ok := h.lookup(roomID)
	if !ok {
		return race.Snapshot{}, race.ErrRoomNotFound
	}
	if !h.attach(c, roomID, "") {
		return race.Snapshot{}, race.ErrRoomNotFound
	}
	return room.Snapshot(), nil
}

// Disconnect removes c from its room's audience. A racer who leaves before the race
// starts gives up their place unless another connection still speaks for them.
func (h *Hub) Disconnect(c Conn) {
	m, ok := h.groups.Leave(c)
	if !ok {
		return
	}
	h.leaveRoom(m)
}

func (h *Hub) leaveRoom(m membership) {
	if m.username == "" || h.groups.HasMember(m.roomID, m.username) {
		return
	}
	room, ok := h.rooms.Get(m.roomID)
	if !ok {
		return
	}
	if _, err := room.Leave(m.username); err != nil {
		return
	}
	h.groups.Broadcast(m.roomID, UserLeftEvent(m.username))
	LogLeftRoom(m.roomID, m.username)
}

// attach joins c to the room's group. If the room vanished in the meantime the
// membership is undone and attach reports false.
func (h *Hub) attach(c Conn, roomID string, username string) bool {
	prev, had := h.groups.Join(c, roomID, username)
	if had && prev != (membership{roomID: roomID, username: username}) {
		h.leaveRoom(prev)
	}
	if _, ok := h.rooms.Get(roomID); !ok {
		h.groups.Leave(c)
		return false
	}
	return true
}

func (h *Hub) expireRoom(roomID string) {
	if h.rooms.Remove(roomID) {
		roomsExpired.Inc()
		roomsActive.Set(float64(h.rooms.Len()))
		LogRoomExpired(roomID)
	}
	h.groups.Broadcast(roomID, RoomExpiredEvent(roomID))
	h.closeGroup(roomID)
}

func (h *Hub) closeGroup(roomID string) {
	for _, c := range h.groups.Drop(roomID) {
		if rc, ok := c.(roomCloser); ok {
			rc.RoomClosed()
		}
	}
}

// Close stops every room's timer and releases the connections watching them.
func (h *Hub) Close() {
	for _, room := range h.rooms.Rooms() {
		room.Close()
		h.rooms.Remove(room.ID)
		h.closeGroup(room.ID)
	}
	roomsActive.Set(0)
}

func (h *Hub) Room(roomID string) (*race.Room, bool) {
	return h.lookup(roomID)
}

// lookup resolves a client supplied room id. Ids that could not have been generated
// never reach the registry.
func (h *Hub) lookup(roomID string) (*race.Room, bool) {
	if !h.validID(roomID) {
		return nil, false
	}
	return h.rooms.Get(roomID)
}

func (h *Hub) rejoinKey(roomID string, username string) string {
	if h.rejoin == nil {
		return ""
	}
	key, err := h.rejoin.GenerateRejoinKey(roomID, username)
	if err != nil {
		return ""
	}
	return key
}

func (h *Hub) fail(c Conn, action string, err error) {
	observeAction(action, err)
	LogRejectedAction(action, err)
	c.Send(ErrorEvent(errorMessage(err)))
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrUsernameRequired
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return "", ErrUsernameTooLong
	}
	return username, nil
}

var userErrors = []struct {
	err     error
	code    string
	message string
}{
	{race.ErrRoomNotFound, "room_not_found", "Room not found."},
	{race.ErrRoomBusy, "room_busy", "Room is busy."},
	{race.ErrRoomFull, "room_full", "Room is full."},
	{race.ErrDuplicateUsername, "duplicate_username", "Username already taken in this room."},
	{race.ErrNotParticipant, "not_participant", "You are not racing in this room."},
	{ErrUsernameRequired, "username_required", "Username is required."},
	{ErrUsernameTooLong, "username_too_long", "Username is too long."},
	{ErrInvalidRejoinKey, "invalid_rejoin_key", "Rejoin key is invalid or expired."},
	{ErrUndefinedType, "unknown_action", "Unknown action."},
}

func errorMessage(err error) string {
	for _, e := range userErrors {
		if errors.Is(err, e.err) {
			return e.message
		}
	}
	return "Something went wrong."
}

func errorCode(err error) string {
	if err == nil {
		return "ok"
	}
	for _, e := range userErrors {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return "internal"
}
