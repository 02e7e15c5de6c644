package main

import (
	"errors"
	"time"
)

const (
	EventRoomCreated      = "RoomCreated"
	EventRoomJoined       = "RoomJoined"
	EventUserJoined       = "UserJoined"
	EventUserLeft         = "UserLeft"
	EventStartCountdown   = "StartCountdown"
	EventNewTextGenerated = "NewTextGenerated"
	EventUpdateScores     = "UpdateScores"
	EventWinnerAnnounced  = "WinnerAnnounced"
	EventRaceCompleted    = "RaceCompleted"
	EventRoomExpired      = "RoomExpired"
	EventError            = "Error"
)

// Event is everything the server pushes to a client. Only the fields relevant to Type
// are set.
type Event struct {
	Type      string            `json:"type"`
	RoomID    string            `json:"roomId,omitempty"`
	Text      string            `json:"text,omitempty"`
	Icons     map[string]string `json:"icons,omitempty"`
	Username  string            `json:"username,omitempty"`
	Icon      string            `json:"icon,omitempty"`
	Scores    map[string]int    `json:"scores,omitempty"`
	Place     int               `json:"place,omitempty"`
	ElapsedMs int64             `json:"elapsedMs,omitempty"`
	Finishers []string          `json:"finishers,omitempty"`
	RejoinKey string            `json:"rejoinKey,omitempty"`
	Message   string            `json:"message,omitempty"`
}

func RoomCreatedEvent(roomID, text string, icons map[string]string, rejoinKey string) Event {
	return Event{Type: EventRoomCreated, RoomID: roomID, Text: text, Icons: icons, RejoinKey: rejoinKey}
}

func RoomJoinedEvent(roomID, text string, icons map[string]string, rejoinKey string) Event {
	return Event{Type: EventRoomJoined, RoomID: roomID, Text: text, Icons: icons, RejoinKey: rejoinKey}
}

func UserJoinedEvent(username, icon string) Event {
	return Event{Type: EventUserJoined, Username: username, Icon: icon}
}

func UserLeftEvent(username string) Event {
	return Event{Type: EventUserLeft, Username: username}
}

func StartCountdownEvent() Event {
	return Event{Type: EventStartCountdown}
}

func NewTextGeneratedEvent(text string) Event {
	return Event{Type: EventNewTextGenerated, Text: text}
}

func UpdateScoresEvent(scores map[string]int) Event {
	return Event{Type: EventUpdateScores, Scores: scores}
}

func WinnerAnnouncedEvent(username string, place int, elapsed time.Duration) Event {
	return Event{Type: EventWinnerAnnounced, Username: username, Place: place, ElapsedMs: elapsed.Milliseconds()}
}

func RaceCompletedEvent(finishers []string) Event {
	return Event{Type: EventRaceCompleted, Finishers: finishers}
}

func RoomExpiredEvent(roomID string) Event {
	return Event{Type: EventRoomExpired, RoomID: roomID}
}

func ErrorEvent(message string) Event {
	return Event{Type: EventError, Message: message}
}

type CreateRoomAction struct {
	Username string `json:"username"`
}

type JoinRoomAction struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type StartGameAction struct {
	RoomID string `json:"roomId"`
}

type UpdateProgressAction struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

type RejoinAction struct {
	RejoinKey string `json:"rejoinKey"`
}

var ErrUndefinedType = errors.New("incorrect type")

// ParseAction returns one of the Action structs by value, e.g. CreateRoomAction.
func ParseAction(data []byte) (any, error) {
	message, err := UnmarshalJSON[struct {
		Type string `json:"type"`
	}](data)
	if err != nil {
		return nil, err
	}
	switch message.Type {
	case "CreateRoom":
		return UnmarshalJSON[CreateRoomAction](data)
	case "JoinRoom":
		return UnmarshalJSON[JoinRoomAction](data)
	case "StartGame":
		return UnmarshalJSON[StartGameAction](data)
	case "UpdateProgress":
		return UnmarshalJSON[UpdateProgressAction](data)
	case "Rejoin":
		return UnmarshalJSON[RejoinAction](data)
	}
	return nil, ErrUndefinedType
}
