// Package validation implements the field rule sets for the register, login
// and update flows. Each rule set evaluates every field independently and
// returns the full ordered list of violations, so one failed request surfaces
// everything at once.
package validation

import (
	"mime/multipart"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/campusdesk/student-records-api/internal/models"
	appErrors "github.com/campusdesk/student-records-api/pkg/errors"
)

var (
	nameRe       = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)
	phoneRe      = regexp.MustCompile(`^[0-9]{10}$`)
	enrollmentRe = regexp.MustCompile(`^ENR2025[A-Z0-9]{4}$`)
)

// AllowedImageMIMEs lists the accepted profile image content types.
var AllowedImageMIMEs = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}

// Validator evaluates the register, login and update rule sets.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the custom field rules registered.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("alphanumspace", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("enrollment", func(fl validator.FieldLevel) bool {
		return enrollmentRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Register applies the registration rule set.
func (v *Validator) Register(req *models.RegisterStudentRequest) []appErrors.FieldError {
	req.Normalize()
	return v.collect(v.validate.Struct(req))
}

// Update applies the update rule set: present fields only.
func (v *Validator) Update(req *models.UpdateStudentRequest) []appErrors.FieldError {
	req.Normalize()
	return v.collect(v.validate.Struct(req))
}

// Login applies the login rule set.
func (v *Validator) Login(req *models.LoginRequest) []appErrors.FieldError {
	req.Email = strings.TrimSpace(req.Email)
	return v.collect(v.validate.Struct(req))
}

// Image checks the MIME type of an uploaded attachment, if one is present.
func (v *Validator) Image(file *multipart.FileHeader) []appErrors.FieldError {
	if file == nil {
		return nil
	}
	contentType := file.Header.Get("Content-Type")
	for _, allowed := range AllowedImageMIMEs {
		if strings.EqualFold(contentType, allowed) {
			return nil
		}
	}
	return []appErrors.FieldError{{
		Field:   "profile_image",
		Message: "Invalid profile image format. Only JPG, JPEG, PNG, WEBP and GIF are allowed.",
	}}
}

func (v *Validator) collect(err error) []appErrors.FieldError {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []appErrors.FieldError{{Field: "payload", Message: "invalid payload"}}
	}

	out := make([]appErrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, appErrors.FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

// messageFor maps a failed rule to its user-facing message.
func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		if fe.Tag() == "required" {
			return "Name is required"
		}
		return "Only alphanumeric characters and spaces are allowed"
	case "email":
		if fe.Tag() == "required" {
			return "Email is required!"
		}
		return "Invalid email address"
	case "password":
		switch fe.Tag() {
		case "required":
			return "Password is required!"
		default:
			return "Password must contain minimum 8 characters with at least 1 uppercase, 1 lowercase and 1 symbol"
		}
	case "phone_number":
		if fe.Tag() == "required" {
			return "Phone number is required!"
		}
		return "Phone number must be numeric and exactly 10 digits"
	case "gender":
		if fe.Tag() == "required" {
			return "Gender is required!"
		}
		return "Gender must be one of: " + strings.Join(models.Genders, ", ")
	case "enrollment_number":
		switch fe.Tag() {
		case "required":
			return "Enrollment number is required!"
		case "alphanum":
			return "Enrollment number must be alphanumeric"
		default:
			return "Invalid enrollment number!"
		}
	case "branch":
		if fe.Tag() == "required" {
			return "Branch is required!"
		}
		return "Branch must be one of: " + strings.Join(models.Branches, ", ")
	case "semester":
		return "Semester must be an integer between 1 and 12"
	case "address":
		return "Address cannot exceed 255 characters"
	}
	return "Invalid value"
}

// isStrongPassword requires 8+ characters containing at least one uppercase
// letter, one lowercase letter and one symbol.
func isStrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var upper, lower, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && symbol
}
