package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/repository"
)

const (
	catalogCacheKey = "doctors:available"
	cacheTTL        = 5 * time.Minute
)

// Service serves the doctor catalog. The available-doctor list is read far
// more often than it changes, so it sits behind a short in-process cache.
type Service struct {
	repo  repository.DoctorRepository
	cache *cache.Cache
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, 10*time.Minute),
	}
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListAvailable(ctx context.Context) ([]*model.Doctor, error) {
	if cached, ok := s.cache.Get(catalogCacheKey); ok {
		return cached.([]*model.Doctor), nil
	}

	doctors, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	s.cache.Set(catalogCacheKey, doctors, cache.DefaultExpiration)
	return doctors, nil
}

func (s *Service) UpdateAvailability(ctx context.Context, id uuid.UUID, available bool) (*model.Doctor, error) {
	if err := s.repo.UpdateAvailability(ctx, id, available); err != nil {
		return nil, err
	}
	s.cache.Delete(catalogCacheKey)
	return s.repo.Get(ctx, id)
}
