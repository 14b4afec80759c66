package lifecycle

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/roomloop/roomloop-backend/internal/models"
)

// Engine reconciles rooms.status with wall-clock time. It runs from a
// periodic task; every pass re-evaluates ground truth (the timestamps), so
// at-least-once execution is safe and a failed pass is simply retried on the
// next tick.
type Engine struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewEngine(db *gorm.DB, logger *logrus.Logger) *Engine {
	return &Engine{
		db:  db,
		log: logger.WithField("component", "lifecycle"),
	}
}

// Advance loads the rooms whose window boundary has passed and applies
// NextStatus to each. The status guard in the UPDATE's WHERE clause keeps the
// sweep idempotent and monotonic when several instances run it concurrently:
// whoever commits first wins, the rest affect zero rows.
func (e *Engine) Advance(ctx context.Context, now time.Time) error {
	var due []models.Room
	err := e.db.WithContext(ctx).
		Where("(status = ? AND start_time <= ?) OR (status = ? AND end_time <= ?)",
			models.RoomStatusScheduled, now, models.RoomStatusLive, now).
		Find(&due).Error
	if err != nil {
		e.log.WithError(err).Error("failed to load rooms due for transition")
		return err
	}

	var opened, closed int64
	for _, room := range due {
		next := NextStatus(now, room.StartTime, room.EndTime, room.Status)
		if next == room.Status {
			continue
		}
		res := e.db.WithContext(ctx).Model(&models.Room{}).
			Where("id = ? AND status = ?", room.ID, room.Status).
			Update("status", next)
		if res.Error != nil {
			e.log.WithError(res.Error).WithField("room_id", room.ID).Error("failed to advance room status")
			return res.Error
		}
		if res.RowsAffected == 0 {
			continue // another sweep got there first
		}
		switch next {
		case models.RoomStatusLive:
			opened++
		case models.RoomStatusClosed:
			closed++
		}
	}

	if opened > 0 || closed > 0 {
		e.log.WithFields(logrus.Fields{
			"opened": opened,
			"closed": closed,
		}).Info("room statuses advanced")
	}
	return nil
}
