package handlers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"petshop/internal/apperr"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// "notblank" fails on whitespace-only strings, which "required" lets through.
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	}
}

var errInvalidBirthday = apperr.Validation("birthday must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")

// birthdayInput decodes either a calendar date or a full timestamp.
type birthdayInput struct {
	time.Time
}

func (b *birthdayInput) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errInvalidBirthday
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw); err == nil {
			b.Time = t.UTC()
			return nil
		}
	}
	return errInvalidBirthday
}

func (b *birthdayInput) value() *time.Time {
	if b == nil {
		return nil
	}
	t := b.Time
	return &t
}
