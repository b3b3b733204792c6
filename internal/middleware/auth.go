package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"petshop/internal/apperr"
	"petshop/internal/auth"
	"petshop/internal/models"
	"petshop/internal/response"
)

const userKey = "user"

var (
	errNoToken     = apperr.Unauthorized("not authorized, no token")
	errTokenFailed = apperr.Unauthorized("not authorized, token failed")
	errAdminOnly   = apperr.Forbidden("admin access required")
)

// TokenVerifier checks a raw bearer token.
type TokenVerifier interface {
	Verify(raw string) (auth.Claims, error)
}

// UserFinder loads the account a token refers to.
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// Protect requires a valid bearer token whose user still exists and
// attaches that user to the context.
func Protect(tokens TokenVerifier, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			response.Error(c, errNoToken)
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			slog.DebugContext(c.Request.Context(), "token rejected", "route", "AUTH", "error", err.Error())
			response.Error(c, errTokenFailed)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := users.FindByID(ctx, claims.UserID)
		if err != nil {
			if !apperr.IsKind(err, apperr.KindNotFound) {
				slog.ErrorContext(ctx, "load token user failed", "route", "AUTH", "error", err.Error())
			}
			response.Error(c, errTokenFailed)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// AdminOnly must run after Protect.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin() {
			response.Error(c, errAdminOnly)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by Protect.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// SetUser attaches user to c as Protect would.
func SetUser(c *gin.Context, user models.User) {
	c.Set(userKey, user)
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
