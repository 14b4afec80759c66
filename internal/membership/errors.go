package membership

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomNotJoinable     = errors.New("room is not live")
	ErrRoomFull            = errors.New("room is full")
	ErrAlreadyJoined       = errors.New("already an active participant")
	ErrNotParticipant      = errors.New("not an active participant of this room")
	ErrInvalidStatusFilter = errors.New("invalid status filter")
)
