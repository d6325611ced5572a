package kiosk

import (
	"context"
	"errors"
	"time"
)

// Store is the persistence surface the service needs.
type Store interface {
	UpsertDevice(ctx context.Context, deviceID string) error
	SaveRefreshToken(ctx context.Context, deviceID, token string, expiresAt time.Time) error
}

// Service registers attendance kiosks.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register validates and persists device metadata.
func (s *Service) Register(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return errors.New("device id required")
	}
	return s.store.UpsertDevice(ctx, deviceID)
}

// RememberRefreshToken stores an issued refresh token for later rotation.
func (s *Service) RememberRefreshToken(ctx context.Context, deviceID, token string, expiresAt time.Time) error {
	return s.store.SaveRefreshToken(ctx, deviceID, token, expiresAt)
}
