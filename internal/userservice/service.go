// Package userservice manages business logic layer of users.
package userservice

import (
	"context"
	"time"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/go-petr/pet-wallet/pkg/passpkg"
	"github.com/go-petr/pet-wallet/pkg/tokenpkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	Get(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateProfile(ctx context.Context, arg domain.UpdateProfileParams) (domain.User, error)
	UpdateProfileImage(ctx context.Context, id int64, imageURL string) (domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo          Repo
	tokenMaker    tokenpkg.Maker
	tokenDuration time.Duration
}

// New return user service struct to manage user bussines logic.
func New(ur Repo, tm tokenpkg.Maker, tokenDuration time.Duration) *Service {
	return &Service{
		repo:          ur,
		tokenMaker:    tm,
		tokenDuration: tokenDuration,
	}
}

// RegisterParams is the input data to register a user.
type RegisterParams struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Register creates a user with the hashed password.
func (s *Service) Register(ctx context.Context, arg RegisterParams) error {
	l := zerolog.Ctx(ctx)

	hashedPassword, err := passpkg.Hash(arg.Password)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	_, err = s.repo.Create(ctx, domain.CreateUserParams{
		Email:          arg.Email,
		FirstName:      arg.FirstName,
		LastName:       arg.LastName,
		HashedPassword: hashedPassword,
	})

	return err
}

// Login checks the credentials and returns an access token of the user.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	l := zerolog.Ctx(ctx)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", domain.ErrWrongCredentials
		}

		return "", err
	}

	if err := passpkg.Check(password, user.HashedPassword); err != nil {
		l.Warn().Err(err).Send()
		return "", domain.ErrWrongCredentials
	}

	token, _, err := s.tokenMaker.CreateToken(user.ID, user.Email, s.tokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		return "", errorspkg.ErrInternal
	}

	return token, nil
}

// GetProfile returns the profile of the user.
func (s *Service) GetProfile(ctx context.Context, userID int64) (domain.Profile, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}

	return domain.NewProfile(user), nil
}

// UpdateProfile changes the user's names and returns the updated profile.
func (s *Service) UpdateProfile(ctx context.Context, arg domain.UpdateProfileParams) (domain.Profile, error) {
	user, err := s.repo.UpdateProfile(ctx, arg)
	if err != nil {
		return domain.Profile{}, err
	}

	return domain.NewProfile(user), nil
}

// UpdateProfileImage sets the user's profile image and returns the updated profile.
func (s *Service) UpdateProfileImage(ctx context.Context, userID int64, imageURL string) (domain.Profile, error) {
	user, err := s.repo.UpdateProfileImage(ctx, userID, imageURL)
	if err != nil {
		return domain.Profile{}, err
	}

	return domain.NewProfile(user), nil
}
