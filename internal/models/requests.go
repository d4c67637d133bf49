package models

import "strings"

// RegisterStudentRequest holds the payload for registering a student. Fields
// arrive either as JSON or as multipart form values next to the optional
// profile_image part.
type RegisterStudentRequest struct {
	Name             string `json:"name" form:"name" validate:"required,alphanumspace"`
	Email            string `json:"email" form:"email" validate:"required,email"`
	Password         string `json:"password" form:"password" validate:"required,strongpassword"`
	PhoneNumber      string `json:"phone_number" form:"phone_number" validate:"required,phone10"`
	Gender           string `json:"gender" form:"gender" validate:"required,oneof=male female other"`
	EnrollmentNumber string `json:"enrollment_number" form:"enrollment_number" validate:"required,alphanum,enrollment"`
	Branch           string `json:"branch" form:"branch" validate:"required,oneof=cse ece me ce ee other"`
	Semester         int    `json:"semester" form:"semester" validate:"required,min=1,max=12"`
	Address          string `json:"address" form:"address" validate:"omitempty,max=255"`
}

// Normalize applies the canonical casing rules before validation: gender and
// branch lowercase, enrollment number uppercase.
func (r *RegisterStudentRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Gender = strings.ToLower(strings.TrimSpace(r.Gender))
	r.Branch = strings.ToLower(strings.TrimSpace(r.Branch))
	r.EnrollmentNumber = strings.ToUpper(strings.TrimSpace(r.EnrollmentNumber))
}

// UpdateStudentRequest holds the payload for updating a student. Every field
// is optional; a present field is held to the same rule as on registration.
type UpdateStudentRequest struct {
	Name             *string `json:"name" form:"name" validate:"omitnil,alphanumspace"`
	Email            *string `json:"email" form:"email" validate:"omitnil,email"`
	Password         *string `json:"password" form:"password" validate:"omitnil,strongpassword"`
	PhoneNumber      *string `json:"phone_number" form:"phone_number" validate:"omitnil,phone10"`
	Gender           *string `json:"gender" form:"gender" validate:"omitnil,oneof=male female other"`
	EnrollmentNumber *string `json:"enrollment_number" form:"enrollment_number" validate:"omitnil,alphanum,enrollment"`
	Branch           *string `json:"branch" form:"branch" validate:"omitnil,oneof=cse ece me ce ee other"`
	Semester         *int    `json:"semester" form:"semester" validate:"omitnil,min=1,max=12"`
	Address          *string `json:"address" form:"address" validate:"omitnil,max=255"`
}

// Normalize applies the casing rules to whichever fields are present.
func (r *UpdateStudentRequest) Normalize() {
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		*r.Email = strings.TrimSpace(*r.Email)
	}
	if r.Gender != nil {
		*r.Gender = strings.ToLower(strings.TrimSpace(*r.Gender))
	}
	if r.Branch != nil {
		*r.Branch = strings.ToLower(strings.TrimSpace(*r.Branch))
	}
	if r.EnrollmentNumber != nil {
		*r.EnrollmentNumber = strings.ToUpper(strings.TrimSpace(*r.EnrollmentNumber))
	}
}
