package handler

import (
	"net/http"
	"time"

	"report-forge/internal/logger"
	"report-forge/internal/model"
	"report-forge/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	auth     *service.AuthService
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthHandler(auth *service.AuthService, secret []byte, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, secret: secret, tokenTTL: tokenTTL}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	m, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Warn("login.failed", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	logger.Info("login.ok", "uid", m.ID, "name", m.Name)

	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  m.ID,
		"name": m.Name,
		"exp":  time.Now().Add(h.tokenTTL).Unix(),
	}).SignedString(h.secret)

	c.JSON(http.StatusOK, model.LoginResponse{
		Token: token,
		User:  model.User{ID: m.ID, Name: m.Name, Avatar: m.Avatar, Role: m.Role},
	})
}
