package models

import "time"

// Location is a resolved geographic position.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a user-submitted location record owned by exactly one user.
type Place struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Location    Location  `json:"location"`
	Image       string    `json:"image"`
	CreatorID   string    `json:"creator"`
	CreatedAt   time.Time `json:"createdAt"`
}
