package inventory

import "errors"

var (
	ErrItemNotFound         = errors.New("inventory item not found")
	ErrInsufficientQuantity = errors.New("insufficient available quantity")
	ErrItemReserved         = errors.New("cannot delete item with reserved quantity")
	ErrDuplicateIdentifier  = errors.New("item id or sku already exists")
)
