// Package response renders the JSON envelope shared by every endpoint.
package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"petshop/internal/apperr"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Count      *int        `json:"count,omitempty"`
}

type Pagination struct {
	CurrentPage   int64 `json:"currentPage"`
	TotalPages    int64 `json:"totalPages"`
	TotalProducts int64 `json:"totalProducts"`
	HasMore       bool  `json:"hasMore"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Message(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func Paginated(c *gin.Context, data any, pagination Pagination) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Pagination: &pagination})
}

func Counted(c *gin.Context, data any, count int) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// Error translates err and aborts the request with the failure envelope.
// Internal failures are logged with their cause; the client only sees a
// generic message.
func Error(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr.Kind == apperr.KindInternal {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err.Error(),
		)
	}
	c.AbortWithStatusJSON(appErr.Status(), Envelope{Success: false, Message: appErr.Message})
}
