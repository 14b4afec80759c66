package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/roomloop/roomloop-backend/internal/middleware"
	"github.com/roomloop/roomloop-backend/internal/models"
	"github.com/roomloop/roomloop-backend/internal/utils"
)

type AuthController struct {
	DB        *gorm.DB
	JWTSecret string
	ExpiresIn time.Duration
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email, username and password are required"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logrus.WithError(err).Error("failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "registration failed"})
		return
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := a.DB.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "email or username already taken"})
			return
		}
		logrus.WithError(err).Error("failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "registration failed"})
		return
	}

	token, err := a.issueToken(user)
	if err != nil {
		logrus.WithError(err).Error("failed to sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": userJSON(user), "token": token})
}

func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Email == "" && req.Username == "") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email or username and password are required"})
		return
	}

	var user models.User
	q := a.DB
	if req.Email != "" {
		q = q.Where("email = ?", req.Email)
	} else {
		q = q.Where("username = ?", req.Username)
	}
	if err := q.First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}

	token, err := a.issueToken(user)
	if err != nil {
		logrus.WithError(err).Error("failed to sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user), "token": token})
}

// Me returns the authenticated user's profile, reloaded from the store so a
// deleted account is noticed even while its token is still valid.
func (a *AuthController) Me(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	var user models.User
	if err := a.DB.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user no longer exists"})
			return
		}
		logrus.WithError(err).Error("failed to load user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

func (a *AuthController) issueToken(user models.User) (string, error) {
	now := time.Now().UTC()
	claims := middleware.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "roomloop",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ExpiresIn)),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.JWTSecret))
}

func userJSON(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"created_at": user.CreatedAt,
	}
}
