package handler

import (
	"errors"
	"net/http"

	"github.com/docvault/server/model"
	"github.com/docvault/server/service"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users service.UserStore
}

func NewUserHandler(users service.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// List returns all registered users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	result := make([]*model.User, len(users))
	for i, u := range users {
		result[i] = u.Sanitized()
	}

	c.JSON(http.StatusOK, gin.H{"users": result})
}

// UpdateRole changes a user's role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id := c.Param("id")

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !model.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	if err := h.users.UpdateUserRole(c.Request.Context(), id, req.Role); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "role": req.Role})
}

// Delete removes a user account
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}
