// Package catalogservice manages service layer of banners and payable services.
package catalogservice

import (
	"context"

	"github.com/go-petr/pet-wallet/internal/domain"
)

// Repo provides data access layer interface needed by catalog service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package catalogservice
type Repo interface {
	ListBanners(ctx context.Context) ([]domain.Banner, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
}

// Service facilitates catalog service layer logic.
type Service struct {
	repo Repo
}

// New returns catalog service struct to manage catalog business logic.
func New(cr Repo) *Service {
	return &Service{
		repo: cr,
	}
}

// ListBanners returns all banners. An empty catalog yields an empty, non-nil slice.
func (s *Service) ListBanners(ctx context.Context) ([]domain.Banner, error) {
	banners, err := s.repo.ListBanners(ctx)
	if err != nil {
		return nil, err
	}

	if banners == nil {
		banners = []domain.Banner{}
	}

	return banners, nil
}

// ListServices returns all payable services. An empty catalog yields an empty, non-nil slice.
func (s *Service) ListServices(ctx context.Context) ([]domain.Service, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	if services == nil {
		services = []domain.Service{}
	}

	return services, nil
}
