package models

import (
	"time"

	"github.com/google/uuid"

	"petshop/internal/apperr"
)

const DefaultAddressLabel = "Home"

// Address represents a single address entry for a user.
type Address struct {
	ID         string    `bson:"id" json:"_id"`
	Label      string    `bson:"label" json:"label"`
	Address    string    `bson:"address" json:"address"`
	City       string    `bson:"city" json:"city"`
	PostalCode string    `bson:"postalCode" json:"postalCode"`
	Phone      string    `bson:"phone" json:"phone"`
	IsDefault  bool      `bson:"isDefault" json:"isDefault"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AddressPatch is a partial address change; nil fields stay untouched.
type AddressPatch struct {
	Label      *string
	Address    *string
	City       *string
	PostalCode *string
	Phone      *string
}

var ErrAddressNotFound = apperr.NotFound("address not found")

// NewAddress stamps a fresh identity on a. An empty label becomes
// DefaultAddressLabel and an empty phone falls back to fallbackPhone.
func NewAddress(a Address, fallbackPhone string, now time.Time) Address {
	a.ID = uuid.NewString()
	if a.Label == "" {
		a.Label = DefaultAddressLabel
	}
	if a.Phone == "" {
		a.Phone = fallbackPhone
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	return a
}

// NormalizeDefaultAddresses returns a copy of list where at most one entry is
// default, and exactly one when the list is non-empty. When several entries
// claim the flag the first listed keeps it; when none does the first entry
// gets it.
func NormalizeDefaultAddresses(list []Address) []Address {
	out := make([]Address, len(list))
	copy(out, list)

	found := false
	for i := range out {
		if out[i].IsDefault {
			if found {
				out[i].IsDefault = false
			}
			found = true
		}
	}
	if !found && len(out) > 0 {
		out[0].IsDefault = true
	}
	return out
}

// FindAddress returns the index of the entry with id, or -1.
func FindAddress(list []Address, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// AddAddress appends a. The new entry is default only when list was empty.
func AddAddress(list []Address, a Address) []Address {
	a.IsDefault = len(list) == 0
	out := make([]Address, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, a)
	return NormalizeDefaultAddresses(out)
}

// UpdateAddress applies patch to the entry with id.
func UpdateAddress(list []Address, id string, patch AddressPatch, now time.Time) ([]Address, error) {
	index := FindAddress(list, id)
	if index == -1 {
		return nil, ErrAddressNotFound
	}

	out := make([]Address, len(list))
	copy(out, list)

	target := &out[index]
	if patch.Label != nil {
		target.Label = *patch.Label
	}
	if patch.Address != nil {
		target.Address = *patch.Address
	}
	if patch.City != nil {
		target.City = *patch.City
	}
	if patch.PostalCode != nil {
		target.PostalCode = *patch.PostalCode
	}
	if patch.Phone != nil {
		target.Phone = *patch.Phone
	}
	target.UpdatedAt = now

	return NormalizeDefaultAddresses(out), nil
}

// DeleteAddress removes the entry with id. Removing the default promotes the
// first remaining entry.
func DeleteAddress(list []Address, id string) ([]Address, error) {
	index := FindAddress(list, id)
	if index == -1 {
		return nil, ErrAddressNotFound
	}

	wasDefault := list[index].IsDefault
	out := make([]Address, 0, len(list)-1)
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)

	if wasDefault && len(out) > 0 {
		for i := range out {
			out[i].IsDefault = false
		}
		out[0].IsDefault = true
	}
	return NormalizeDefaultAddresses(out), nil
}

// SetDefaultAddress makes the entry with id the only default.
func SetDefaultAddress(list []Address, id string) ([]Address, error) {
	index := FindAddress(list, id)
	if index == -1 {
		return nil, ErrAddressNotFound
	}

	out := make([]Address, len(list))
	copy(out, list)
	for i := range out {
		out[i].IsDefault = i == index
	}
	return NormalizeDefaultAddresses(out), nil
}
