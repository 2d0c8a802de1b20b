package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/http/middleware"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/service"
)

// AuthHandler serves registration, login and the authenticated profile view.
type AuthHandler struct {
	Auth *service.AuthService
}

// NewAuthHandler creates the handler set.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

type registerRequest struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	DOB            string `json:"dob"`
	GenderID       *int64 `json:"gender_id"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	AlternatePhone string `json:"alternate_phone"`
	RoleID         *int64 `json:"role_id"`
	DepartmentID   *int64 `json:"department_id"`
	StatusID       *int64 `json:"status_id"`
	ProfileImage   string `json:"profile_image"`
}

type authResponse struct {
	service.UserProjection
	Token string `json:"token"`
}

type loginResponse struct {
	service.UserProjection
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// Register creates a credential record and returns the sanitized user with a
// bearer token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid request body."})
		return
	}

	result, err := h.Auth.Register(c.Request.Context(), service.RegisterInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Password:       req.Password,
		DOB:            req.DOB,
		GenderID:       req.GenderID,
		Address:        req.Address,
		Phone:          req.Phone,
		AlternatePhone: req.AlternatePhone,
		RoleID:         req.RoleID,
		DepartmentID:   req.DepartmentID,
		StatusID:       req.StatusID,
		ProfileImage:   req.ProfileImage,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{UserProjection: result.User, Token: result.Token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates by email and password. Responses never distinguish an
// unknown email from a wrong password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Email and password are required."})
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		UserProjection: result.User,
		Token:          result.Token,
		ExpiresAt:      result.ExpiresAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

// Me returns the projection of the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	subject, ok := middleware.GetSubject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Missing subject."})
		return
	}

	id, err := uuid.Parse(subject)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Invalid subject."})
		return
	}

	user, err := h.Auth.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
