package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"petshop/internal/apperr"
	"petshop/internal/auth"
	"petshop/internal/models"
	"petshop/internal/response"
)

var (
	errLegacyAddress      = apperr.Validation("address is required")
	errEmailTaken         = apperr.Duplicate("email already in use")
	errPhoneTaken         = apperr.Duplicate("phone already in use")
	errInvalidCredentials = apperr.Unauthorized("invalid email or password")
)

type registerRequest struct {
	Name       string           `json:"name" binding:"required,notblank,max=50"`
	LastName   string           `json:"lastName" binding:"required,notblank,max=50"`
	Email      string           `json:"email" binding:"required,email"`
	Password   string           `json:"password" binding:"required,min=6"`
	Phone      string           `json:"phone" binding:"required,len=10"`
	Birthday   *birthdayInput   `json:"birthday"`
	AvatarURL  string           `json:"avatarUrl"`
	Addresses  []addressRequest `json:"addresses" binding:"omitempty,dive"`
	Address    string           `json:"address" binding:"max=200"`
	City       string           `json:"city" binding:"max=100"`
	PostalCode string           `json:"postalCode" binding:"max=10"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	Name      *string        `json:"name" binding:"omitempty,notblank,max=50"`
	LastName  *string        `json:"lastName" binding:"omitempty,notblank,max=50"`
	Phone     *string        `json:"phone" binding:"omitempty,len=10"`
	Birthday  *birthdayInput `json:"birthday"`
	AvatarURL *string        `json:"avatarUrl"`
}

// sessionResponse is the user document with its access token alongside.
type sessionResponse struct {
	models.User
	Token string `json:"token"`
}

// trimLegacyAddress trims the flat address fields and rejects a city or
// postal code sent without a street address.
func (r *registerRequest) trimLegacyAddress() error {
	r.Address = strings.TrimSpace(r.Address)
	r.City = strings.TrimSpace(r.City)
	r.PostalCode = strings.TrimSpace(r.PostalCode)
	if len(r.Addresses) == 0 && r.Address == "" && (r.City != "" || r.PostalCode != "") {
		return errLegacyAddress
	}
	return nil
}

// initialAddresses builds the address book of a new account. An explicit
// list wins; otherwise the legacy flat fields become a single default entry.
func initialAddresses(req registerRequest, now time.Time) []models.Address {
	if len(req.Addresses) > 0 {
		list := make([]models.Address, 0, len(req.Addresses))
		for _, a := range req.Addresses {
			entry := models.NewAddress(a.toAddress(), req.Phone, now)
			entry.IsDefault = a.IsDefault
			list = append(list, entry)
		}
		return models.NormalizeDefaultAddresses(list)
	}

	if req.Address == "" && req.City == "" && req.PostalCode == "" {
		return []models.Address{}
	}
	legacy := models.NewAddress(models.Address{
		Label:      models.DefaultAddressLabel,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
	}, req.Phone, now)
	legacy.IsDefault = true
	return []models.Address{legacy}
}

func Register(users UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"

		var req registerRequest
		if !bindJSON(c, &req) {
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if err := req.trimLegacyAddress(); err != nil {
			response.Error(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		taken, err := users.EmailExists(ctx, req.Email)
		if err != nil {
			response.Error(c, err)
			return
		}
		if taken {
			response.Error(c, errEmailTaken)
			return
		}

		taken, err = users.PhoneExists(ctx, req.Phone, primitive.NilObjectID)
		if err != nil {
			response.Error(c, err)
			return
		}
		if taken {
			response.Error(c, errPhoneTaken)
			return
		}

		hash, err := hasher.Hash(req.Password)
		if err != nil {
			response.Error(c, err)
			return
		}

		user, err := users.Create(ctx, models.User{
			Name:         strings.TrimSpace(req.Name),
			LastName:     strings.TrimSpace(req.LastName),
			Email:        req.Email,
			PasswordHash: hash,
			Role:         models.RoleUser,
			Phone:        req.Phone,
			Birthday:     req.Birthday.value(),
			AvatarURL:    req.AvatarURL,
			Addresses:    initialAddresses(req, time.Now().UTC()),
		})
		if err != nil {
			response.Error(c, err)
			return
		}

		token, err := tokens.Issue(user.ID, user.Role)
		if err != nil {
			response.Error(c, err)
			return
		}

		slog.InfoContext(ctx, "user registered", "route", route, "userId", user.ID.Hex())
		response.Message(c, http.StatusCreated, "registration successful", sessionResponse{User: user, Token: token})
	}
}

func Login(users UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByEmail(ctx, req.Email)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				err = errInvalidCredentials
			}
			response.Error(c, err)
			return
		}

		if err := hasher.Check(user.PasswordHash, req.Password); err != nil {
			if errors.Is(err, auth.ErrPasswordMismatch) {
				err = errInvalidCredentials
			}
			response.Error(c, err)
			return
		}

		token, err := tokens.Issue(user.ID, user.Role)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, http.StatusOK, "login successful", sessionResponse{User: user, Token: token})
	}
}

// Me returns the authenticated account.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		user.Addresses = models.NormalizeDefaultAddresses(user.Addresses)
		response.OK(c, user)
	}
}

func UpdateProfile(users UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req profileRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if req.Phone != nil && *req.Phone != user.Phone {
			taken, err := users.PhoneExists(ctx, *req.Phone, user.ID)
			if err != nil {
				response.Error(c, err)
				return
			}
			if taken {
				response.Error(c, errPhoneTaken)
				return
			}
		}

		updated, err := users.UpdateProfile(ctx, user.ID, models.ProfileUpdate{
			Name:      trimmed(req.Name),
			LastName:  trimmed(req.LastName),
			Phone:     req.Phone,
			Birthday:  req.Birthday.value(),
			AvatarURL: req.AvatarURL,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, http.StatusOK, "profile updated", updated)
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
