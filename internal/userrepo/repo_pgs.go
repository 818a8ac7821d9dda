// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/dbpkg"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates user repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns user RepoPGS.
//
// db may be the pool or a transaction.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const userColumns = `id, email, first_name, last_name, hashed_password, profile_image, balance, created_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.HashedPassword,
		&u.ProfileImage,
		&u.Balance,
		&u.CreatedAt,
	)

	return u, err
}

// CreateQuery inserts into users table.
const CreateQuery = `
INSERT INTO users (
    email,
    first_name,
    last_name,
    hashed_password
) VALUES (
    $1, $2, $3, $4
) RETURNING ` + userColumns

// Create creates the user and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, CreateQuery,
		arg.Email,
		arg.FirstName,
		arg.LastName,
		arg.HashedPassword,
	)

	u, err := scanUser(row)
	if err != nil {
		l.Error().Err(err).Send()

		if dbpkg.UniqueViolation(err) && dbpkg.Constraint(err) == "users_email_key" {
			return u, domain.ErrEmailAlreadyExists
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const getByEmailQuery = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1
`

// GetByEmail returns the user with the given email.
func (r *RepoPGS) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, getByEmailQuery, email)
}

const getQuery = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
`

// Get returns the user with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.User, error) {
	return r.getOne(ctx, getQuery, id)
}

const getForUpdateQuery = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
FOR UPDATE
`

// GetForUpdate returns the user with the given id and locks its row.
//
// It is meaningful only inside a transaction: the lock is held until it ends, so
// concurrent balance changes of the same user are serialized.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int64) (domain.User, error) {
	return r.getOne(ctx, getForUpdateQuery, id)
}

func (r *RepoPGS) getOne(ctx context.Context, query string, arg any) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Err(err).Send()
			return u, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const getBalanceQuery = `
SELECT balance
FROM users
WHERE id = $1
`

// GetBalance returns the balance of the user with the given id.
func (r *RepoPGS) GetBalance(ctx context.Context, id int64) (int64, error) {
	l := zerolog.Ctx(ctx)

	var balance int64

	err := r.db.QueryRowContext(ctx, getBalanceQuery, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Err(err).Send()
			return 0, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return 0, errorspkg.ErrInternal
	}

	return balance, nil
}

const addBalanceQuery = `
UPDATE users
SET balance = balance + $1
WHERE id = $2
RETURNING balance
`

// AddBalance changes the user's balance by amount and returns the new balance.
//
// A negative amount debits the user; a debit that would make the balance negative
// is rejected by the users_balance_check constraint.
func (r *RepoPGS) AddBalance(ctx context.Context, amount, id int64) (int64, error) {
	l := zerolog.Ctx(ctx)

	var balance int64

	err := r.db.QueryRowContext(ctx, addBalanceQuery, amount, id).Scan(&balance)
	if err != nil {
		l.Error().Err(err).Send()

		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrUserNotFound
		}

		if dbpkg.Constraint(err) == "users_balance_check" {
			return 0, domain.ErrInsufficientBalance
		}

		return 0, errorspkg.ErrInternal
	}

	return balance, nil
}

const updateProfileQuery = `
UPDATE users
SET first_name = $1, last_name = $2
WHERE id = $3
RETURNING ` + userColumns

// UpdateProfile changes the user's names and returns the updated user.
func (r *RepoPGS) UpdateProfile(ctx context.Context, arg domain.UpdateProfileParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateProfileQuery, arg.FirstName, arg.LastName, arg.UserID)

	u, err := scanUser(row)
	if err != nil {
		l.Error().Err(err).Send()

		if errors.Is(err, sql.ErrNoRows) {
			return u, domain.ErrUserNotFound
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const updateProfileImageQuery = `
UPDATE users
SET profile_image = $1
WHERE id = $2
RETURNING ` + userColumns

// UpdateProfileImage sets the user's profile image url and returns the updated user.
func (r *RepoPGS) UpdateProfileImage(ctx context.Context, id int64, imageURL string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateProfileImageQuery, imageURL, id)

	u, err := scanUser(row)
	if err != nil {
		l.Error().Err(err).Send()

		if errors.Is(err, sql.ErrNoRows) {
			return u, domain.ErrUserNotFound
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}
