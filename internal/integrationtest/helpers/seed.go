// Package helpers provides seeding helpers shared by integration tests.
package helpers

import (
	"context"
	"testing"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/userrepo"
	"github.com/go-petr/pet-wallet/pkg/dbpkg"
	"github.com/go-petr/pet-wallet/pkg/passpkg"
	"github.com/go-petr/pet-wallet/pkg/randompkg"
)

// SeedUser creates random User with zero balance.
func SeedUser(t *testing.T, db dbpkg.SQLInterface) domain.User {
	t.Helper()

	user, _ := SeedUserWithPassword(t, db)

	return user
}

// SeedUserWithPassword creates random User and returns it with its plain password.
func SeedUserWithPassword(t *testing.T, db dbpkg.SQLInterface) (domain.User, string) {
	t.Helper()

	password := randompkg.Password()

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		t.Fatalf("passpkg.Hash(%q) returned error: %v", password, err)
	}

	arg := domain.CreateUserParams{
		Email:          randompkg.Email(),
		FirstName:      randompkg.Name(),
		LastName:       randompkg.Name(),
		HashedPassword: hashedPassword,
	}

	user, err := userrepo.NewRepoPGS(db).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("userRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return user, password
}

// SeedUserWithBalance creates random User holding balance.
func SeedUserWithBalance(t *testing.T, db dbpkg.SQLInterface, balance int64) domain.User {
	t.Helper()

	user := SeedUser(t, db)

	got, err := userrepo.NewRepoPGS(db).AddBalance(context.Background(), balance, user.ID)
	if err != nil {
		t.Fatalf("userRepo.AddBalance(context.Background(), %d, %d) returned error: %v", balance, user.ID, err)
	}

	user.Balance = got

	return user
}
