package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/service"
)

// UserHandler serves the user administration endpoints.
type UserHandler struct {
	Auth *service.AuthService
}

// NewUserHandler creates the handler set.
func NewUserHandler(auth *service.AuthService) *UserHandler {
	return &UserHandler{Auth: auth}
}

// List returns all active users with their reference display names.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Auth.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// Get returns a single user by id.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid user id."})
		return
	}

	user, err := h.Auth.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete soft-deletes a user. The row survives for audit; the email becomes
// reusable by new registrations.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid user id."})
		return
	}

	deleted, err := h.Auth.SoftDelete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully", "id": deleted})
}

// Dropdowns returns the roles, departments and status reference lists used by
// registration forms.
func (h *UserHandler) Dropdowns(c *gin.Context) {
	lists, err := h.Auth.Dropdowns(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}
