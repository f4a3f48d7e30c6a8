package handlers

import (
	"flottapool/internal/config"
	"flottapool/internal/middleware"
	"flottapool/internal/utils"
	"flottapool/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	security *config.SecurityConfig
	logger   *logger.Logger
}

func NewAuthHandler(security *config.SecurityConfig, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		security: security,
		logger:   log,
	}
}

type loginRequest struct {
	Name      string `json:"name" binding:"required"`
	AccessKey string `json:"access_key" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Login exchanges a shared access key for a signed token. The operator key
// grants full control; the guest key grants read-only dashboard access.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	var role string
	switch req.AccessKey {
	case h.security.OperatorKey:
		role = utils.RoleOperator
	case h.security.GuestKey:
		role = utils.RoleGuest
	default:
		h.logger.WithField("name", req.Name).Warn("Login rejected: unknown access key")
		utils.UnauthorizedResponse(c)
		return
	}

	token, err := middleware.IssueToken(h.security.JWTSecret, req.Name, role, h.security.JWTAccessTokenTTL)
	if err != nil {
		h.logger.WithError(err).Error("Failed to sign token")
		utils.InternalServerErrorResponse(c)
		return
	}

	h.logger.WithFields(map[string]interface{}{"name": req.Name, "role": role}).Info("Login succeeded")
	utils.SuccessResponse(c, "Login successful", loginResponse{Token: token, Role: role})
}
