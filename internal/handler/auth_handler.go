package handler

import (
	"errors"

	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/examtrack/examtrack-backend/internal/response"
	"github.com/examtrack/examtrack-backend/internal/service"
	"github.com/examtrack/examtrack-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles device registration and admin login.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterDevice godoc
// POST /api/v1/auth/device/register
// Enrolls (or re-enrolls) a sync client and returns its device token.
func (h *AuthHandler) RegisterDevice(c *gin.Context) {
	var req model.RegisterDeviceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, response.ErrValidation, fields)
		return
	}

	device, token, err := h.authService.RegisterDevice(c.Request.Context(), &req)
	if err != nil {
		response.FailMessage(c, response.ErrStorage, err.Error())
		return
	}

	response.OK(c, gin.H{"device": device, "token": token})
}

// AdminLogin godoc
// POST /api/v1/auth/admin/login
// Exchanges the configured admin key for an admin token.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, response.ErrValidation, fields)
		return
	}

	token, err := h.authService.AdminLogin(req.AdminKey)
	if err != nil {
		if errors.Is(err, service.ErrAdminKeyDisabled) {
			response.FailMessage(c, response.ErrTokenInvalid, "admin access is not configured on this server")
			return
		}
		response.Fail(c, response.ErrTokenInvalid)
		return
	}

	response.OK(c, gin.H{"token": token})
}
