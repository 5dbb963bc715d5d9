package handlers

import (
	"github.com/gin-gonic/gin"

	"reviewbase-api/helper"
	"reviewbase-api/middleware"
	"reviewbase-api/models"
	"reviewbase-api/services"
)

type AuthHandler struct {
	authService services.AuthService
	Helper      *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService, Helper: &helper.HTTPHelper{}}
}

// Signup issues a confirmation code to the requested identity. The code goes
// out by mail, never in the response body.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	response, warning, err := h.authService.Signup(req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	message := "Confirmation code sent"
	if warning != "" {
		message = "Signup accepted: " + warning
	}
	h.Helper.SendSuccess(c, message, response)
}

// Token exchanges a confirmation code for a session token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	response, err := h.authService.Redeem(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Token issued", response)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	user, err := h.authService.GetProfile(actor)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile loaded", user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	user, err := h.authService.UpdateProfile(actor, req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile updated", user)
}
