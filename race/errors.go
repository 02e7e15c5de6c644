package race

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomExists        = errors.New("room already exists")
	ErrRoomBusy          = errors.New("room is busy")
	ErrRoomFull          = errors.New("room is full")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrNotParticipant    = errors.New("not a participant")
)
