package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/roomloop/roomloop-backend/internal/config"
	"github.com/roomloop/roomloop-backend/internal/controllers"
	"github.com/roomloop/roomloop-backend/internal/membership"
	"github.com/roomloop/roomloop-backend/internal/middleware"
	"github.com/roomloop/roomloop-backend/internal/ws"
)

func Register(r *gin.Engine, db *gorm.DB, cfg *config.Config, hub *ws.Hub, pub ws.Publisher, logger *logrus.Logger) {
	expires, err := time.ParseDuration(cfg.JWTExpiresIn + "m")
	if err != nil || expires == 0 {
		expires = 60 * time.Minute
	}

	ledger := membership.NewLedger(db, logger)
	authCtrl := &controllers.AuthController{DB: db, JWTSecret: cfg.JWTSecret, ExpiresIn: expires}
	roomCtrl := &controllers.RoomController{DB: db, Ledger: ledger, Pub: pub}

	// Public
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
	}

	// Protected
	authMW := middleware.AuthMiddleware(middleware.AuthConfig{JWTSecret: cfg.JWTSecret})
	api := r.Group("/api", authMW)
	{
		api.GET("/users/me", authCtrl.Me)

		api.POST("/rooms", roomCtrl.CreateRoom)
		api.GET("/rooms/public", roomCtrl.ListPublicRooms)
		// Both routes share the :roomRef name because gin requires one
		// wildcard per segment: join is keyed by access code, leave by room id.
		api.POST("/rooms/:roomRef/join", roomCtrl.JoinRoom)
		api.POST("/rooms/:roomRef/leave", roomCtrl.LeaveRoom)

		api.GET("/ws", ws.Handler(hub, pub, logger))
	}
}
