package service

import "errors"

var (
	ErrNotFound           = errors.New("error not found")
	ErrAmountNotPositive  = errors.New("error amount is not a positive number")
	ErrAmountExceedsLimit = errors.New("error typed amount exceeds limit")
)
