package domain

import "time"

// WishlistItem records that a user saved a product.
type WishlistItem struct {
	ID        int64
	UserID    int64
	ProductID int64
	Product   *Product
	CreatedAt time.Time
}
