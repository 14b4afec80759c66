package database

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/roomloop/roomloop-backend/internal/models"
	"github.com/roomloop/roomloop-backend/internal/utils"
)

const (
	demoEmail    = "demo@roomloop.local"
	demoUsername = "demo_host"
	demoPassword = "demo123"
	demoRoomName = "Welcome Lounge"
)

// SeedDemo creates a demo host and a scheduled public room so a fresh local
// setup has something to list and join. It is idempotent.
func SeedDemo(db *gorm.DB) error {
	var host models.User
	err := db.Where("email = ?", demoEmail).First(&host).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hashed, err := utils.HashPassword(demoPassword)
		if err != nil {
			return err
		}
		host = models.User{
			Email:        demoEmail,
			Username:     demoUsername,
			PasswordHash: hashed,
		}
		if err := db.Create(&host).Error; err != nil {
			return err
		}
		logrus.WithField("email", demoEmail).Info("seeded demo host")
	}

	var count int64
	if err := db.Model(&models.Room{}).Where("host_id = ? AND name = ?", host.ID, demoRoomName).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	code, err := utils.GenerateAccessCode()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	room := models.Room{
		HostID:      host.ID,
		Name:        demoRoomName,
		Topic:       "welcome",
		Description: "A demo room seeded for local development.",
		Type:        models.RoomTypePublic,
		StartTime:   now.Add(5 * time.Minute),
		EndTime:     now.Add(65 * time.Minute),
		AccessCode:  code,
		Status:      models.RoomStatusScheduled,
	}
	if err := db.Create(&room).Error; err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"room": demoRoomName, "access_code": code}).Info("seeded demo room")
	return nil
}
