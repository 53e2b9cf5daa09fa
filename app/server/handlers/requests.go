package handlers

import (
	"acquisitions-api/app/server/accounts"
	"acquisitions-api/app/server/apperr"
	"acquisitions-api/app/server/models"
	"errors"
	"fmt"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"strings"
)

// bcrypt 只使用前 72 字节
const passwordMaxBytes = 72

type signupRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

func (r *signupRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = accounts.NormalizeEmail(r.Email)
}

func (r signupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 255)),
		validation.Field(&r.Email, validation.Required, validation.Length(0, 255), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 0), validation.By(maxBytes(passwordMaxBytes))),
		validation.Field(&r.Role, validation.In(models.RoleUser, models.RoleAdmin)),
	)
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *signinRequest) normalize() {
	r.Email = accounts.NormalizeEmail(r.Email)
}

func (r signinRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// updateRequest 为 nil 的字段表示不修改
type updateRequest struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email"`
	Password *string      `json:"password"`
	Role     *models.Role `json:"role"`
}

func (r *updateRequest) normalize() {
	if r.Name != nil {
		r.Name = trimmed(*r.Name)
	}
	if r.Email != nil {
		email := accounts.NormalizeEmail(*r.Email)
		r.Email = &email
	}
}

func (r updateRequest) Validate() error {
	if r.Name == nil && r.Email == nil && r.Password == nil && r.Role == nil {
		return validation.Errors{"body": errors.New("at least one field must be provided")}
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(2, 255)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, validation.Length(0, 255), is.Email),
		validation.Field(&r.Password, validation.NilOrNotEmpty, validation.Length(6, 0), validation.By(maxBytes(passwordMaxBytes))),
		validation.Field(&r.Role, validation.NilOrNotEmpty, validation.In(models.RoleUser, models.RoleAdmin)),
	)
}

type roleRequest struct {
	Role models.Role `json:"role"`
}

func (r roleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required, validation.In(models.RoleUser, models.RoleAdmin)),
	)
}

func maxBytes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case *string:
			if v == nil {
				return nil
			}
			s = *v
		}
		if len(s) > n {
			return fmt.Errorf("must be no more than %d bytes", n)
		}
		return nil
	}
}

func trimmed(s string) *string {
	s = strings.TrimSpace(s)
	return &s
}

// invalid 把 ozzo-validation 的字段错误转换为 Validation 错误
func invalid(err error) error {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return apperr.Wrap(apperr.Internal, "Internal server error", err)
	}

	details := make(map[string]string, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		details[field] = fieldErr.Error()
	}
	return apperr.Invalid(details)
}
