package catalog

import (
	"context"

	"consultly/internal/domain"
)

type ServiceRepository interface {
	ListActive(ctx context.Context) ([]domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

type Service struct {
	services ServiceRepository
}

func NewService(services ServiceRepository) *Service {
	return &Service{services: services}
}

func (s *Service) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.services.ListActive(ctx)
}

func (s *Service) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	return s.services.GetByID(ctx, id)
}
