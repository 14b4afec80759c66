package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/roomloop/roomloop-backend/internal/membership"
	"github.com/roomloop/roomloop-backend/internal/middleware"
	"github.com/roomloop/roomloop-backend/internal/models"
	"github.com/roomloop/roomloop-backend/internal/utils"
	"github.com/roomloop/roomloop-backend/internal/ws"
)

// accessCodeAttempts bounds retries when a freshly generated access code
// collides with an existing room.
const accessCodeAttempts = 5

type RoomController struct {
	DB     *gorm.DB
	Ledger *membership.Ledger
	Pub    ws.Publisher
}

type createRoomRequest struct {
	Name            string    `json:"name" binding:"required"`
	Type            string    `json:"type" binding:"required,oneof=public private"`
	Topic           string    `json:"topic"`
	Description     string    `json:"description"`
	MaxParticipants *int      `json:"max_participants"`
	StartTime       time.Time `json:"startTime" binding:"required"`
	EndTime         time.Time `json:"endTime" binding:"required"`
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name, type (public|private), startTime and endTime are required"})
		return
	}

	now := time.Now().UTC()
	if !req.StartTime.After(now) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "start time must be in the future"})
		return
	}
	if !req.EndTime.After(req.StartTime) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "end time must be after start time"})
		return
	}
	if req.MaxParticipants != nil && *req.MaxParticipants < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "max_participants must be at least 1"})
		return
	}

	room := models.Room{
		HostID:          claims.UserID,
		Name:            req.Name,
		Topic:           req.Topic,
		Description:     req.Description,
		Type:            req.Type,
		MaxParticipants: req.MaxParticipants,
		StartTime:       req.StartTime.UTC(),
		EndTime:         req.EndTime.UTC(),
		Status:          models.RoomStatusScheduled,
	}

	// Every room gets an access code; the join route is keyed by it for
	// public and private rooms alike.
	for attempt := 0; ; attempt++ {
		code, err := utils.GenerateAccessCode()
		if err != nil {
			logrus.WithError(err).Error("failed to generate access code")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create room"})
			return
		}
		room.AccessCode = code

		err = rc.DB.Create(&room).Error
		if err == nil {
			break
		}
		if isUniqueViolation(err) && attempt < accessCodeAttempts-1 {
			room.ID = "" // regenerate both id and code on retry
			continue
		}
		logrus.WithError(err).Error("failed to create room")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"room": roomJSON(room)})
}

func (rc *RoomController) JoinRoom(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}
	accessCode := c.Param("roomRef")

	res, err := rc.Ledger.Join(c.Request.Context(), accessCode, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, membership.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "room not found"})
		case errors.Is(err, membership.ErrRoomNotJoinable):
			c.JSON(http.StatusForbidden, gin.H{"message": "room is not live"})
		case errors.Is(err, membership.ErrRoomFull):
			c.JSON(http.StatusConflict, gin.H{"message": "room is full"})
		case errors.Is(err, membership.ErrAlreadyJoined):
			c.JSON(http.StatusConflict, gin.H{"message": "you are already in this room"})
		default:
			logrus.WithError(err).Error("join failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to join room"})
		}
		return
	}

	publishParticipantUpdate(rc.Pub, res, claims.UserID, claims.Username, ws.ActionJoined)

	body := roomJSON(res.Room)
	body["participants"] = res.Roster
	body["current_participants"] = res.Count
	c.JSON(http.StatusOK, gin.H{"room": body})
}

func (rc *RoomController) LeaveRoom(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}
	roomID, ok := parseRoomID(c.Param("roomRef"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "you are not an active participant of this room"})
		return
	}

	res, err := rc.Ledger.Leave(c.Request.Context(), roomID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, membership.ErrNotParticipant), errors.Is(err, membership.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "you are not an active participant of this room"})
		default:
			logrus.WithError(err).Error("leave failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to leave room"})
		}
		return
	}

	publishParticipantUpdate(rc.Pub, res, claims.UserID, claims.Username, ws.ActionLeft)

	c.JSON(http.StatusOK, gin.H{"message": "left the room"})
}

func (rc *RoomController) ListPublicRooms(c *gin.Context) {
	status, err := membership.ParseStatusFilter(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "status must be one of live, starting_soon, all"})
		return
	}

	rooms, err := rc.Ledger.ListPublic(c.Request.Context(), time.Now().UTC(), c.Query("tag"), status)
	if err != nil {
		logrus.WithError(err).Error("failed to list public rooms")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list rooms"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

func roomJSON(room models.Room) gin.H {
	return gin.H{
		"id":               room.ID,
		"host_id":          room.HostID,
		"name":             room.Name,
		"topic":            room.Topic,
		"description":      room.Description,
		"type":             room.Type,
		"max_participants": room.MaxParticipants,
		"start_time":       room.StartTime,
		"end_time":         room.EndTime,
		"access_code":      room.AccessCode,
		"status":           room.Status,
		"created_at":       room.CreatedAt,
	}
}
