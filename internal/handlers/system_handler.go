package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SystemInfo describes the running register.
type SystemInfo struct {
	TerminalID string `json:"terminalId"`
	Database   string `json:"database"` // sqlite (in memory) or mysql
	Events     bool   `json:"events"`
	Assistant  bool   `json:"assistant"`
}

// GetSystemStatus lets the client show which register it talks to
func (h *Handlers) GetSystemStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.System)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "online"})
}
