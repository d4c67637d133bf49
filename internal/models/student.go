package models

import "time"

// Gender enumerates the accepted gender values, stored lowercase.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Branches enumerates the accepted branch codes, stored lowercase.
var Branches = []string{"cse", "ece", "me", "ce", "ee", "other"}

// Genders enumerates the accepted gender values.
var Genders = []string{GenderMale, GenderFemale, GenderOther}

// Student represents a registered student record. The password digest is
// never serialized.
type Student struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Email            string    `db:"email" json:"email"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	PhoneNumber      string    `db:"phone_number" json:"phone_number"`
	Gender           string    `db:"gender" json:"gender"`
	EnrollmentNumber string    `db:"enrollment_number" json:"enrollment_number"`
	Branch           string    `db:"branch" json:"branch"`
	Semester         int       `db:"semester" json:"semester"`
	Address          string    `db:"address" json:"address,omitempty"`
	ProfileImage     string    `db:"profile_image" json:"profile_image,omitempty"`
	ProfileImageURL  string    `db:"-" json:"profile_image_url,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates search and pagination parameters for listing.
type StudentFilter struct {
	Search string
	Page   int
	Limit  int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
