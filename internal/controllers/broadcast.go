package controllers

import (
	"github.com/roomloop/roomloop-backend/internal/membership"
	"github.com/roomloop/roomloop-backend/internal/ws"
)

// publishParticipantUpdate notifies room subscribers after a committed join
// or leave. Publishing is fire-and-forget: the membership change has already
// been persisted and is never rolled back on a failed broadcast.
func publishParticipantUpdate(pub ws.Publisher, res *membership.JoinResult, userID, username, action string) {
	if pub == nil {
		return
	}
	pub.Publish(res.Room.ID, ws.EventParticipantUpdated, ws.ParticipantUpdatePayload{
		RoomID:              res.Room.ID,
		UserID:              userID,
		Username:            username,
		Action:              action,
		NewParticipantCount: res.Count,
		NewParticipantList:  res.Roster,
	})
}
