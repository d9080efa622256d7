package model

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserRole string

const (
	UserRolePatient UserRole = "patient"
	UserRoleDoctor  UserRole = "doctor"
)

// User backs the demo login only. Real authentication is out of scope;
// these rows are seeded.
type User struct {
	Base
	Email        string   `db:"email" json:"email"`
	Name         string   `db:"name" json:"name"`
	Role         UserRole `db:"role" json:"role"`
	PasswordHash string   `db:"password_hash" json:"-"`
	Language     string   `db:"language" json:"language"`
	Prakriti     string   `db:"prakriti" json:"prakriti,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
