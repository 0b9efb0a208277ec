package user

import "errors"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never expose hash in JSON
	Name         string `json:"name"`
	Role         Role   `json:"role"`
}

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
