package api

import (
	"net/http"

	"pixelforge/internal/catalog"

	"github.com/gin-gonic/gin"
)

// ListModels 返回模型目录。默认只含可用模型，all=true 时返回全部。
func (h *HTTPHandler) ListModels(c *gin.Context) {
	if c.Query("all") == "true" {
		c.JSON(http.StatusOK, gin.H{"models": catalog.AllModels()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": catalog.AvailableModels()})
}
