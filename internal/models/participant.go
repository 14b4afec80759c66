package models

import "time"

// RoomParticipant is one stretch of participation in a room. A row with
// LeftAt == nil is an active membership; leaving sets LeftAt, and a later
// rejoin inserts a fresh row.
type RoomParticipant struct {
	ID       uint   `gorm:"primaryKey"`
	RoomID   string `gorm:"type:uuid;index:idx_room_user"`
	UserID   string `gorm:"type:uuid;index:idx_room_user"`
	JoinedAt time.Time
	LeftAt   *time.Time `gorm:"index"`
}
