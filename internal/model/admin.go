package model

import "time"

// Admin is a question-bank administrator. Admins are created with the
// create-admin CLI, never through the API.
type Admin struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
