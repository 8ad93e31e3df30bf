package models

import "time"

// Project groups donations for a specific NGO initiative.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	NGOID       int64     `json:"ngo_id"`
	Description *string   `json:"description"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	CreatedAt   time.Time `json:"created_at"`
}
