package handlers

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"petshop/internal/apperr"
	"petshop/internal/middleware"
	"petshop/internal/models"
	"petshop/internal/response"
)

const requestTimeout = 5 * time.Second

var errInvalidBody = apperr.Validation("invalid request body")

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// bindJSON decodes and validates the body into dst. On failure the error
// envelope has already been written.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) || errors.Is(err, io.EOF) || apperr.IsKind(err, apperr.KindValidation) {
		response.Error(c, err)
		return false
	}
	response.Error(c, errInvalidBody)
	return false
}

// objectIDParam parses the named path parameter. A malformed id is
// reported as notFound, as an unknown one would be.
func objectIDParam(c *gin.Context, name string, notFound error) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		response.Error(c, notFound)
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentUser returns the authenticated user or writes a 401.
func currentUser(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperr.Unauthorized("not authorized, no token"))
		return models.User{}, false
	}
	return user, true
}
