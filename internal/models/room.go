package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoomTypePublic  = "public"
	RoomTypePrivate = "private"
)

const (
	RoomStatusScheduled = "scheduled"
	RoomStatusLive      = "live"
	RoomStatusClosed    = "closed"
)

// Room is a time-boxed chat session. Status is derived from the clock by the
// lifecycle engine; nothing else writes it after creation.
type Room struct {
	ID              string `gorm:"type:uuid;primaryKey"`
	HostID          string `gorm:"type:uuid;index"`
	Name            string
	Topic           string
	Description     string
	Type            string `gorm:"index"`
	MaxParticipants *int
	StartTime       time.Time `gorm:"index"`
	EndTime         time.Time `gorm:"index"`
	AccessCode      string    `gorm:"uniqueIndex"`
	Status          string    `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
