// Package models defines the persistent entities of the vault.
package models

import "time"

// User is an identity record. PasswordHash is a bcrypt hash and is never
// serialized into API responses.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Name          string     `json:"name"`
	Surname       string     `json:"surname"`
	CreateDate    time.Time  `json:"create_date"`
	LastLoginDate *time.Time `json:"last_login_date,omitempty"`
}
