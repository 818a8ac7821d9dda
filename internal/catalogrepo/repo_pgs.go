// Package catalogrepo manages repository layer of banners and payable services.
package catalogrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/dbpkg"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates catalog repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns catalog RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const listBannersQuery = `
SELECT banner_name, banner_image, description
FROM banners
ORDER BY id
`

// ListBanners returns all banners.
func (r *RepoPGS) ListBanners(ctx context.Context) ([]domain.Banner, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listBannersQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Banner{}

	for rows.Next() {
		var b domain.Banner
		if err := rows.Scan(&b.Name, &b.Image, &b.Description); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, b)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const listServicesQuery = `
SELECT service_code, service_name, service_icon, service_tariff
FROM services
ORDER BY service_code
`

// ListServices returns all payable services.
func (r *RepoPGS) ListServices(ctx context.Context) ([]domain.Service, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listServicesQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Service{}

	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.Code, &s.Name, &s.Icon, &s.Tariff); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, s)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const getServiceQuery = `
SELECT service_code, service_name, service_icon, service_tariff
FROM services
WHERE service_code = $1
`

// GetService returns the service with the given code.
func (r *RepoPGS) GetService(ctx context.Context, code string) (domain.Service, error) {
	l := zerolog.Ctx(ctx)

	var s domain.Service

	err := r.db.QueryRowContext(ctx, getServiceQuery, code).Scan(&s.Code, &s.Name, &s.Icon, &s.Tariff)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Str("service_code", code).Err(err).Send()
			return s, domain.ErrServiceNotFound
		}

		l.Error().Err(err).Send()

		return s, errorspkg.ErrInternal
	}

	return s, nil
}
