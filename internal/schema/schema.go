// Package schema holds the single definition of accepted input. The server
// validates every request body with it and the Go client validates before
// sending, so both sides agree on what is acceptable.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/taskflow/taskflow-api/internal/models"
)

// Passwords are capped at 72 bytes, the most bcrypt will hash.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6,max=72,maxbytes=72"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72,maxbytes=72"`
}

// TaskForm is the full set of user-editable task fields. Updates replace all of them.
type TaskForm struct {
	Title       string              `json:"title" validate:"required"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority" validate:"required,oneof=high medium low"`
	DueDate     string              `json:"dueDate" validate:"required"`
	Tag         models.TaskTag      `json:"tag" validate:"required,oneof=Work Personal Urgent Shopping"`
	Completed   bool                `json:"completed"`
}

type ProfileInput struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Username       string  `json:"username" validate:"required,min=3"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72,maxbytes=72"`
}

// AdminUserUpdate carries the fields an administrator may change. Nil means unchanged.
type AdminUserUpdate struct {
	Name     *string          `json:"name" validate:"omitempty,min=1"`
	Email    *string          `json:"email" validate:"omitempty,email"`
	Username *string          `json:"username" validate:"omitempty,min=3"`
	Role     *models.UserRole `json:"role" validate:"omitempty,oneof=user admin"`
}

func (u AdminUserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Username == nil && u.Role == nil
}

// FieldError describes one rejected field by its JSON name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// maxbytes limits the encoded length; max counts characters.
	v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return v
}

// Validate checks v against its validate tags. It returns nil or a
// *ValidationError listing every violated field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	result := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		result.Fields = append(result.Fields, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return result
}

func message(fe validator.FieldError) string {
	label := displayName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s is too long", label)
	case "email":
		return "Invalid email address"
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// displayName turns a JSON field name such as "dueDate" into "Due date".
func displayName(field string) string {
	if field == "" {
		return "Value"
	}
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteString(strings.ToLower(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TaskQuery is the filter accepted by the task list endpoint.
type TaskQuery struct {
	UserID *uint64 `form:"userId" json:"userId"`
	Status string  `form:"status" json:"status" validate:"omitempty,oneof=all pending completed"`
	Tag    string  `form:"tag" json:"tag" validate:"omitempty,oneof=all Work Personal Urgent Shopping"`
	Search string  `form:"search" json:"search"`
}
