package domain

import (
	"errors"
	"time"
)

var ErrCourseNotFound = errors.New("course not found")
var ErrAlreadyPurchased = errors.New("course already purchased")

// Course is the sellable content aggregate. Only the fields the auth and
// purchase flows touch are modelled; lesson content lives elsewhere.
type Course struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Level          string    `json:"level,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	Price          float64   `json:"price"`
	EstimatedPrice float64   `json:"estimated_price,omitempty"`
	PurchasedCount int64     `json:"purchased_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
