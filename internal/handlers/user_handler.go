package handlers

import (
	"net/http"

	"stockmaster/internal/users"

	"github.com/gin-gonic/gin"
)

//
// --- User Directory (Admin only) ---
//

func (h *Handlers) ListUsers(c *gin.Context) {
	list, err := h.Users.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) GetUser(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handlers) CreateUser(c *gin.Context) {
	var input users.Input
	if !bindJSON(c, &input) {
		return
	}
	u, err := h.Users.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handlers) UpdateUser(c *gin.Context) {
	var input users.Input
	if !bindJSON(c, &input) {
		return
	}
	u, err := h.Users.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handlers) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted", "id": id})
}
