package controller

import "github.com/gin-gonic/gin"

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"status": "success", "data": data})
}

func respondError(c *gin.Context, status int, kind, message string) {
	c.JSON(status, gin.H{"status": "error", "error": kind, "message": message})
}
