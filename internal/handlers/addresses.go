package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"petshop/internal/models"
	"petshop/internal/response"
)

type addressRequest struct {
	Label      string `json:"label" binding:"max=30"`
	Address    string `json:"address" binding:"required,notblank,max=200"`
	City       string `json:"city" binding:"max=100"`
	PostalCode string `json:"postalCode" binding:"max=10"`
	Phone      string `json:"phone" binding:"omitempty,len=10"`
	IsDefault  bool   `json:"isDefault"`
}

func (r addressRequest) toAddress() models.Address {
	return models.Address{
		Label:      strings.TrimSpace(r.Label),
		Address:    strings.TrimSpace(r.Address),
		City:       strings.TrimSpace(r.City),
		PostalCode: strings.TrimSpace(r.PostalCode),
		Phone:      r.Phone,
	}
}

type addressPatchRequest struct {
	Label      *string `json:"label" binding:"omitempty,max=30"`
	Address    *string `json:"address" binding:"omitempty,notblank,max=200"`
	City       *string `json:"city" binding:"omitempty,max=100"`
	PostalCode *string `json:"postalCode" binding:"omitempty,max=10"`
	Phone      *string `json:"phone" binding:"omitempty,len=10"`
}

func (r addressPatchRequest) toPatch() models.AddressPatch {
	return models.AddressPatch{
		Label:      trimmed(r.Label),
		Address:    trimmed(r.Address),
		City:       trimmed(r.City),
		PostalCode: trimmed(r.PostalCode),
		Phone:      r.Phone,
	}
}

func GetAddresses() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		response.OK(c, models.NormalizeDefaultAddresses(user.Addresses))
	}
}

func AddAddress(users UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req addressRequest
		if !bindJSON(c, &req) {
			return
		}

		entry := models.NewAddress(req.toAddress(), user.Phone, time.Now().UTC())
		saveAddresses(c, users, user, models.AddAddress(user.Addresses, entry), http.StatusCreated, "address added")
	}
}

func UpdateAddress(users UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req addressPatchRequest
		if !bindJSON(c, &req) {
			return
		}

		list, err := models.UpdateAddress(user.Addresses, c.Param("id"), req.toPatch(), time.Now().UTC())
		if err != nil {
			response.Error(c, err)
			return
		}
		saveAddresses(c, users, user, list, http.StatusOK, "address updated")
	}
}

func DeleteAddress(users UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		list, err := models.DeleteAddress(user.Addresses, c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		saveAddresses(c, users, user, list, http.StatusOK, "address deleted")
	}
}

func SetDefaultAddress(users UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		list, err := models.SetDefaultAddress(user.Addresses, c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		saveAddresses(c, users, user, list, http.StatusOK, "default address updated")
	}
}

func saveAddresses(c *gin.Context, users UserRepository, user models.User, list []models.Address, status int, message string) {
	ctx, cancel := requestContext(c)
	defer cancel()

	saved, err := users.SaveAddresses(ctx, user.ID, models.NormalizeDefaultAddresses(list))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, status, message, saved)
}
