package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rohits-web03/humandns/internal/models"
	"github.com/rohits-web03/humandns/internal/utils"
)

var usernameChars = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// newValidator reports fields by their JSON names and adds the username and
// channeltype rules.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	must(v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameChars.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("channeltype", func(fl validator.FieldLevel) bool {
		return models.ChannelType(fl.Field().String()).Valid()
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// valid runs the struct's validate tags and answers 400 with the first
// failure when any rule is broken.
func (h *Handler) valid(w http.ResponseWriter, input any) bool {
	err := h.validate.Struct(input)
	if err == nil {
		return true
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		utils.Fail(w, http.StatusBadRequest, fieldMessage(fields[0]))
		return false
	}
	utils.Fail(w, http.StatusBadRequest, "Invalid input")
	return false
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email address"
	case "username":
		return "Username may only contain letters, digits, '.', '_' or '-'"
	case "channeltype":
		return "Unknown channel type"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min", "gte":
		if unit != "" && fe.Param() == "1" {
			return field + " must not be empty"
		}
		return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), unit)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), unit)
	}
	return "Invalid " + field
}

// trimPtr trims the string behind p in place.
func trimPtr(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}
