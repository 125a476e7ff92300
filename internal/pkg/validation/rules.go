// Package validation holds the struct validator shared by request binding and
// bulk uploads, plus the custom rules the academic records need.
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
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// Roll numbers are alphanumeric, e.g. 21A91A0501
	RollNumberPattern = `^[A-Za-z0-9]{4,20}$`

	// Academic year as 2024-25 or 2024-2025
	AcademicYearPattern = `^\d{4}-(\d{2}|\d{4})$`

	// Faculty codes, e.g. FAC1023 or CSE-017
	FacultyCodePattern = `^[A-Za-z0-9_-]{2,30}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	RollNumber   *regexp.Regexp
	AcademicYear *regexp.Regexp
	FacultyCode  *regexp.Regexp
}{
	RollNumber:   regexp.MustCompile(RollNumberPattern),
	AcademicYear: regexp.MustCompile(AcademicYearPattern),
	FacultyCode:  regexp.MustCompile(FacultyCodePattern),
}

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with custom rules registered. It
// reads the same `binding` tags gin uses so request DTOs double as bulk rows.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
		instance.SetTagName("binding")
		instance.RegisterTagNameFunc(jsonTagName)
		mustRegister(instance)
	})
	return instance
}

// RegisterWithGin installs the custom rules on gin's binding validator so
// `binding:"rollno"` works on request DTOs.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	v.RegisterTagNameFunc(jsonTagName)
	return register(v)
}

// Struct validates s and converts the first failure into a validation error
// carrying a readable message.
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, Message(fe))
		}
		return apperrors.NewValidationError(strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
}

// Message renders one field failure.
func Message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "rollno":
		return field + " must be 4-20 letters or digits"
	case "academicyear":
		return field + " must look like 2024-25"
	case "facultycode":
		return field + " must be 2-30 letters, digits, '-' or '_'"
	default:
		return field + " validation failed: " + fe.Tag()
	}
}

func register(v *validator.Validate) error {
	rules := map[string]*regexp.Regexp{
		"rollno":       CompiledPatterns.RollNumber,
		"academicyear": CompiledPatterns.AcademicYear,
		"facultycode":  CompiledPatterns.FacultyCode,
	}
	for tag, re := range rules {
		re := re
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		}); err != nil {
			return err
		}
	}
	return nil
}

func mustRegister(v *validator.Validate) {
	if err := register(v); err != nil {
		panic(err)
	}
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
