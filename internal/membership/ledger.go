package membership

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/roomloop/roomloop-backend/internal/models"
)

// Participant is one active member of a room's roster.
type Participant struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// JoinResult carries everything the handler needs to respond and broadcast
// after a successful join or leave.
type JoinResult struct {
	Room   models.Room
	Roster []Participant
	Count  int
}

// Ledger is the admission-control and accounting layer for room
// participation. All mutations run inside a transaction that locks the room
// row, so two concurrent joins racing for the last slot serialize instead of
// over-filling the room.
type Ledger struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewLedger(db *gorm.DB, logger *logrus.Logger) *Ledger {
	return &Ledger{
		db:  db,
		log: logger.WithField("component", "membership"),
	}
}

// admit decides whether a user may enter a room given the state read under
// the room lock. Check order: liveness, capacity, duplicate membership.
func admit(room *models.Room, activeCount int64, hasActive bool) error {
	if room.Status != models.RoomStatusLive {
		return ErrRoomNotJoinable
	}
	if room.MaxParticipants != nil && activeCount >= int64(*room.MaxParticipants) {
		return ErrRoomFull
	}
	if hasActive {
		return ErrAlreadyJoined
	}
	return nil
}

// Join admits userID into the room identified by accessCode and returns the
// updated roster. The SELECT ... FOR UPDATE on the room row serializes the
// count-then-insert sequence per room; a lifecycle sweep closing the room
// concurrently is observed here because the status re-check happens inside
// the same transaction.
func (l *Ledger) Join(ctx context.Context, accessCode, userID string) (*JoinResult, error) {
	var res JoinResult
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("access_code = ?", accessCode).
			First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		var activeCount int64
		if err := tx.Model(&models.RoomParticipant{}).
			Where("room_id = ? AND left_at IS NULL", room.ID).
			Count(&activeCount).Error; err != nil {
			return err
		}

		var mine int64
		if err := tx.Model(&models.RoomParticipant{}).
			Where("room_id = ? AND user_id = ? AND left_at IS NULL", room.ID, userID).
			Count(&mine).Error; err != nil {
			return err
		}

		if err := admit(&room, activeCount, mine > 0); err != nil {
			return err
		}

		p := models.RoomParticipant{
			RoomID:   room.ID,
			UserID:   userID,
			JoinedAt: time.Now().UTC(),
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		roster, err := activeRoster(tx, room.ID)
		if err != nil {
			return err
		}
		res = JoinResult{Room: room, Roster: roster, Count: len(roster)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Leave terminates the user's active membership by stamping left_at. The row
// is kept so the participation history survives; the user may rejoin later.
func (l *Ledger) Leave(ctx context.Context, roomID, userID string) (*JoinResult, error) {
	var res JoinResult
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		updated := tx.Model(&models.RoomParticipant{}).
			Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).
			Update("left_at", now)
		if updated.Error != nil {
			return updated.Error
		}
		if updated.RowsAffected == 0 {
			return ErrNotParticipant
		}

		var room models.Room
		if err := tx.Where("id = ?", roomID).First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		roster, err := activeRoster(tx, roomID)
		if err != nil {
			return err
		}
		res = JoinResult{Room: room, Roster: roster, Count: len(roster)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Roster returns all active memberships for a room with usernames. No
// ordering is guaranteed.
func (l *Ledger) Roster(ctx context.Context, roomID string) ([]Participant, error) {
	return activeRoster(l.db.WithContext(ctx), roomID)
}

func activeRoster(tx *gorm.DB, roomID string) ([]Participant, error) {
	roster := make([]Participant, 0)
	err := tx.Table("room_participants").
		Select("room_participants.user_id, users.username").
		Joins("JOIN users ON users.id = room_participants.user_id").
		Where("room_participants.room_id = ? AND room_participants.left_at IS NULL", roomID).
		Scan(&roster).Error
	if err != nil {
		return nil, err
	}
	return roster, nil
}
