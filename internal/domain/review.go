package domain

import "time"

// Review is a rating left by a user on a product.
type Review struct {
	ID        int64
	ProductID int64
	User      User
	Rating    int
	Comment   string
	CreatedAt time.Time
}
