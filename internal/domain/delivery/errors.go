package delivery

import "errors"

var (
	ErrDeliveryNotFound = errors.New("delivery not found")
	ErrDuplicateOrderID = errors.New("order id already exists")
)
