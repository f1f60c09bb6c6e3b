package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/uniattend/internal/app/models"
)

// ClockPattern matches 24h "HH:MM" times
var ClockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

var registerOnce sync.Once

// RegisterGinValidators installs the custom tags on gin's binding validator
func RegisterGinValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin binding engine is not go-playground/validator")
			return
		}
		err = Register(v)
	})
	return err
}

// Register adds the custom tags to v
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"role":              validRole,
		"lesson_status":     validLessonStatus,
		"attendance_status": validAttendanceStatus,
		"clock":             validClock,
		"notblank":          notBlank,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	v.RegisterTagNameFunc(jsonFieldName)
	return nil
}

func validRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

func validLessonStatus(fl validator.FieldLevel) bool {
	return models.LessonStatus(fl.Field().String()).Valid()
}

func validAttendanceStatus(fl validator.FieldLevel) bool {
	return models.AttendanceStatus(fl.Field().String()).Valid()
}

func validClock(fl validator.FieldLevel) bool {
	return ClockPattern.MatchString(fl.Field().String())
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// Message formats the first failing field of a validator error
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	return FieldMessage(verrs[0])
}

// FieldMessage creates a human-readable validation error message
func FieldMessage(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " cannot be empty"
	case "email":
		return "Please provide a valid email"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "role":
		return field + " must be ADMIN, TEACHER, or STUDENT"
	case "lesson_status":
		return field + " must be scheduled, completed, or cancelled"
	case "attendance_status":
		return field + " must be present, absent, or late"
	case "clock":
		return field + " must be a time in HH:MM format"
	case "datetime":
		return field + " must be a date in YYYY-MM-DD format"
	default:
		return field + " is invalid"
	}
}
