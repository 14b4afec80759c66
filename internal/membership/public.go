package membership

import (
	"context"
	"time"

	"github.com/roomloop/roomloop-backend/internal/models"
)

// StatusFilter narrows the public room listing by lifecycle state.
type StatusFilter string

const (
	StatusLive         StatusFilter = "live"
	StatusStartingSoon StatusFilter = "starting_soon"
	StatusAll          StatusFilter = "all"
)

// StartingSoonHorizon bounds how far ahead "starting_soon" looks.
const StartingSoonHorizon = 30 * time.Minute

// ParseStatusFilter validates the status query parameter. An empty value
// defaults to live-only.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(s) {
	case "", StatusLive:
		return StatusLive, nil
	case StatusStartingSoon:
		return StatusStartingSoon, nil
	case StatusAll:
		return StatusAll, nil
	default:
		return "", ErrInvalidStatusFilter
	}
}

// StartingSoonWindow is the half-open interval (now, now+horizon] a scheduled
// room's start_time must fall into to count as starting soon.
func StartingSoonWindow(now time.Time) (from, to time.Time) {
	return now, now.Add(StartingSoonHorizon)
}

// PublicRoom is a room row augmented with the host's username and the live
// participant count, as rendered by the explore listing.
type PublicRoom struct {
	ID                        string    `json:"id"`
	HostID                    string    `json:"host_id"`
	HostUsername              string    `json:"host_username"`
	Name                      string    `json:"name"`
	Topic                     string    `json:"topic"`
	Description               string    `json:"description"`
	Type                      string    `json:"type"`
	MaxParticipants           *int      `json:"max_participants"`
	StartTime                 time.Time `json:"start_time"`
	EndTime                   time.Time `json:"end_time"`
	Status                    string    `json:"status"`
	CurrentActiveParticipants int64     `json:"current_active_participants"`
}

// ListPublic returns public rooms matching an optional topic substring and a
// status filter. No result-set limit is applied; callers listing very large
// deployments should add paging before this becomes a problem.
func (l *Ledger) ListPublic(ctx context.Context, now time.Time, tag string, status StatusFilter) ([]PublicRoom, error) {
	q := l.db.WithContext(ctx).Table("rooms").
		Select(`rooms.id, rooms.host_id, users.username AS host_username,
            rooms.name, rooms.topic, rooms.description, rooms.type,
            rooms.max_participants, rooms.start_time, rooms.end_time, rooms.status,
            (SELECT COUNT(*) FROM room_participants rp
              WHERE rp.room_id = rooms.id AND rp.left_at IS NULL) AS current_active_participants`).
		Joins("JOIN users ON users.id = rooms.host_id").
		Where("rooms.type = ?", models.RoomTypePublic)

	if tag != "" {
		q = q.Where("rooms.topic ILIKE ?", "%"+tag+"%")
	}

	from, to := StartingSoonWindow(now)
	switch status {
	case StatusLive:
		q = q.Where("rooms.status = ?", models.RoomStatusLive)
	case StatusStartingSoon:
		q = q.Where("rooms.status = ? AND rooms.start_time > ? AND rooms.start_time <= ?",
			models.RoomStatusScheduled, from, to)
	case StatusAll:
		q = q.Where("rooms.status = ? OR (rooms.status = ? AND rooms.start_time > ? AND rooms.start_time <= ?)",
			models.RoomStatusLive, models.RoomStatusScheduled, from, to)
	default:
		return nil, ErrInvalidStatusFilter
	}

	rooms := make([]PublicRoom, 0)
	if err := q.Order("rooms.start_time ASC").Scan(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}
