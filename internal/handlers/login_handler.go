package handlers

import (
	"net/http"

	"stockmaster/internal/middleware"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handlers) Login(c *gin.Context) {
	var input LoginRequest
	// 1. Validate Input JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	// 2. Verify against the configured credential (bcrypt)
	if err := h.Credential.Check(input.Email, input.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// 3. Generate JWT Token
	token, expires, err := h.Issuer.GenerateToken(h.Credential.Email, h.Credential.Name, h.Credential.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expires,
		"user": gin.H{
			"name":  h.Credential.Name,
			"email": h.Credential.Email,
			"role":  h.Credential.Role,
		},
	})
}

// Logout discards the session's cart. The token itself stays valid until it expires.
func (h *Handlers) Logout(c *gin.Context) {
	h.Carts.Drop(middleware.Session(c))
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
