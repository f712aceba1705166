package service

import (
	"errors"

	"tienda-joyas/repository"
)

var (
	// ErrProductNotFound is returned when an id is not in the current catalog snapshot
	ErrProductNotFound = errors.New("product not found")
	// ErrEmptyCart is returned when checking out a cart with no lines
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNoImage is returned when a product has no image link
	ErrNoImage = errors.New("product has no image")
	// ErrFeedStatus is returned when the feed answers with a non-2xx status
	ErrFeedStatus = errors.New("unexpected feed status")

	ErrOrderNotFound   = repository.ErrOrderNotFound
	ErrOrderNotPending = repository.ErrOrderNotPending
)
