package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest holds credentials for authenticating a student.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginResponse returns the stripped record and the issued token.
type LoginResponse struct {
	Message string   `json:"message"`
	Student *Student `json:"student"`
	Token   string   `json:"token"`
}

// StudentClaims is the JWT payload for access tokens. The jti matches a row
// in the student's token list.
type StudentClaims struct {
	StudentID string `json:"student_id"`
	jwt.RegisteredClaims
}
