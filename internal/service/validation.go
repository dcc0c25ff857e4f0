package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/slms-api/internal/models"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

var (
	mobilePattern  = regexp.MustCompile(`^\d{11}$`)
	sessionPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
)

// NewValidator returns a validator with the SLMS custom rules registered:
// mobile11, session, shift and pass_requirement.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("mobile11", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("session", func(fl validator.FieldLevel) bool {
		return validSession(fl.Field().String())
	})
	_ = v.RegisterValidation("shift", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case models.ShiftMorning, models.ShiftDay, models.ShiftEvening:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("pass_requirement", func(fl validator.FieldLevel) bool {
		switch models.PassRequirement(fl.Field().String()) {
		case models.PassAllPass, models.PassOneReferred, models.PassTwoReferred, models.PassAny:
			return true
		}
		return false
	})
	return v
}

func validSession(raw string) bool {
	match := sessionPattern.FindStringSubmatch(raw)
	if match == nil {
		return false
	}
	start, _ := strconv.Atoi(match[1])
	end, _ := strconv.Atoi(match[2])
	return (start+1)%100 == end
}

// sessionYear returns the first year of a YYYY-YY session.
func sessionYear(session string) (string, error) {
	if !validSession(session) {
		return "", fmt.Errorf("invalid session %q", session)
	}
	return session[:4], nil
}

// validationError wraps validator failures, naming the offending fields.
func validationError(err error, message string) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fmt.Sprintf("%s failed %s", fieldPath(fe), fe.Tag()))
		}
		message = message + ": " + strings.Join(parts, "; ")
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}
