package service

import (
	"context"
	"errors"

	"foresttrack/internal/geo"
)

var (
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no active session")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidHealth      = errors.New("invalid health value")
	ErrOffline            = errors.New("cannot sync while offline")
	ErrReference          = errors.New("referenced record does not exist")
	ErrTreeNotFound       = errors.New("tree not found")

	ErrLocationUnavailable = geo.ErrUnavailable
)

// PhotoStore turns captured photo data into the values persisted on a record.
type PhotoStore interface {
	Store(ctx context.Context, owner string, photos []string) ([]string, error)
}

// NetworkStatus reports host connectivity at the moment of the call.
type NetworkStatus interface {
	Online() bool
}
