package services

import (
	"context"

	"github.com/Jojie16/SafeZone/pkg/pg"
)

type HealthService struct {
	db *pg.DB
}

func NewHealthService(db *pg.DB) *HealthService {
	return &HealthService{db: db}
}

// Get reports whether a round trip to the store succeeds.
func (s *HealthService) Get(ctx context.Context) error {
	return s.db.Ping(ctx)
}
