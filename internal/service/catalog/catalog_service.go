package catalog

import (
	"context"

	"github.com/blacktie/storefront/internal/domain"
	"github.com/blacktie/storefront/internal/repository"
	"go.uber.org/zap"
)

type CatalogUseCase interface {
	List(ctx context.Context) ([]domain.Event, error)
	GetByID(ctx context.Context, id string) (*domain.Event, error)
}

type EventCache interface {
	GetEvents(ctx context.Context) ([]domain.Event, error)
	SetEvents(ctx context.Context, events []domain.Event) error
}

type CatalogService struct {
	repo  repository.EventRepository
	cache EventCache
	log   *zap.Logger
}

// NewCatalogService builds the read-only event provider. cache may be nil.
func NewCatalogService(repo repository.EventRepository, cache EventCache, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{repo: repo, cache: cache, log: log}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Event, error) {
	if s.cache != nil {
		cached, err := s.cache.GetEvents(ctx)
		if err != nil {
			s.log.Warn("events cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetEvents(ctx, events); err != nil {
			s.log.Warn("events cache write failed", zap.Error(err))
		}
	}
	return events, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return s.repo.GetByID(ctx, id)
}

var _ CatalogUseCase = (*CatalogService)(nil)
