package models

import "time"

// User is an account that owns places. PlaceIDs lists the ids of the
// places it created, in creation order; it is only changed together
// with the place rows themselves.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Image        string    `json:"image"`
	PlaceIDs     []string  `json:"places"`
	CreatedAt    time.Time `json:"createdAt"`
}
