package lifecycle

import (
	"time"

	"github.com/roomloop/roomloop-backend/internal/models"
)

// NextStatus maps a room's time window onto its status at the given instant.
// Transitions are monotonic: scheduled -> live -> closed. A closed room never
// reopens, even if the clock reads before end_time again. Both boundary
// checks run in one call, so a window that opens and closes between two
// sweeps still ends up closed.
func NextStatus(now, start, end time.Time, current string) string {
	status := current
	if status == models.RoomStatusScheduled && !now.Before(start) {
		status = models.RoomStatusLive
	}
	if status == models.RoomStatusLive && !now.Before(end) {
		status = models.RoomStatusClosed
	}
	return status
}
