package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_ongkir/internal/middleware"
	"github.com/GTDGit/gtd_ongkir/internal/service"
	"github.com/GTDGit/gtd_ongkir/internal/utils"
)

type AuthHandler struct {
	authService *service.AdminAuthService
	failures    *middleware.RateLimiter
}

// NewAuthHandler wires operator login. failures limits failed attempts per IP.
func NewAuthHandler(authService *service.AdminAuthService, failures *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, failures: failures}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if !h.failures.Allow(c.ClientIP()) {
			utils.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many invalid authentication attempts")
			return
		}
		if errors.Is(err, utils.ErrAccountInactive) {
			utils.Error(c, http.StatusForbidden, utils.ErrAccountInactive.Error(), "Account is inactive")
			return
		}
		if errors.Is(err, utils.ErrInvalidCredentials) {
			utils.Error(c, http.StatusUnauthorized, utils.ErrInvalidCredentials.Error(), "Invalid email or password")
			return
		}
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	utils.Success(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
	})
}
