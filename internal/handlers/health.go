package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"petshop/internal/response"
)

func Health(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.OK(c, gin.H{
			"status":    "ok",
			"service":   serviceName,
			"timestamp": time.Now().UTC(),
		})
	}
}
