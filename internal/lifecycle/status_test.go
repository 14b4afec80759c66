package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roomloop/roomloop-backend/internal/models"
)

func TestNextStatus_Transitions(t *testing.T) {
	start := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		name    string
		now     time.Time
		current string
		want    string
	}{
		{"scheduled before start stays scheduled", start.Add(-time.Minute), models.RoomStatusScheduled, models.RoomStatusScheduled},
		{"scheduled at start goes live", start, models.RoomStatusScheduled, models.RoomStatusLive},
		{"scheduled after start goes live", start.Add(time.Minute), models.RoomStatusScheduled, models.RoomStatusLive},
		{"live before end stays live", end.Add(-time.Minute), models.RoomStatusLive, models.RoomStatusLive},
		{"live at end closes", end, models.RoomStatusLive, models.RoomStatusClosed},
		{"live after end closes", end.Add(time.Minute), models.RoomStatusLive, models.RoomStatusClosed},
		{"scheduled past whole window closes in one step", end.Add(time.Minute), models.RoomStatusScheduled, models.RoomStatusClosed},
		{"closed never reopens", start.Add(time.Minute), models.RoomStatusClosed, models.RoomStatusClosed},
		{"closed stays closed even before start", start.Add(-time.Hour), models.RoomStatusClosed, models.RoomStatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStatus(tt.now, start, end, tt.current)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextStatus_Idempotent(t *testing.T) {
	start := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	for _, now := range []time.Time{start.Add(-time.Minute), start, end, end.Add(time.Hour)} {
		for _, current := range []string{models.RoomStatusScheduled, models.RoomStatusLive, models.RoomStatusClosed} {
			once := NextStatus(now, start, end, current)
			twice := NextStatus(now, start, end, once)
			assert.Equal(t, once, twice, "NextStatus must be idempotent at %v from %s", now, current)
		}
	}
}

func TestNextStatus_MonotonicOverTime(t *testing.T) {
	start := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	rank := map[string]int{
		models.RoomStatusScheduled: 0,
		models.RoomStatusLive:      1,
		models.RoomStatusClosed:    2,
	}

	status := models.RoomStatusScheduled
	prev := rank[status]
	for now := start.Add(-10 * time.Minute); now.Before(end.Add(10 * time.Minute)); now = now.Add(time.Minute) {
		status = NextStatus(now, start, end, status)
		assert.GreaterOrEqual(t, rank[status], prev, "status must never move backward (at %v)", now)
		prev = rank[status]
	}
	assert.Equal(t, models.RoomStatusClosed, status)
}

func TestNextStatus_WindowInsideOneTick(t *testing.T) {
	// Room opens and closes between two sweeps; one evaluation after end
	// must still land on closed, not stall at live.
	start := time.Date(2026, 8, 28, 12, 0, 10, 0, time.UTC)
	end := start.Add(30 * time.Second)
	tick := end.Add(20 * time.Second)

	assert.Equal(t, models.RoomStatusClosed, NextStatus(tick, start, end, models.RoomStatusScheduled))
}
