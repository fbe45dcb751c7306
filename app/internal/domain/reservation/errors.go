package reservation

import "errors"

var (
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrInvalidOwner          = errors.New("reservation owner must be a session or a user")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrInsufficientInventory = errors.New("insufficient inventory")
)
