// Package ledgerservice manages business logic layer of balances, top ups and payments.
package ledgerservice

import (
	"context"
	"errors"
	"time"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by ledger service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Repo interface {
	Balance(ctx context.Context, userID int64) (int64, error)
	TopUp(ctx context.Context, arg domain.TopUpParams) (domain.TopUpTxResult, error)
	Payment(ctx context.Context, arg domain.PaymentParams) (domain.PaymentTxResult, error)
	RecordFailedTopUp(ctx context.Context, arg domain.TopUpParams) error
	RecordFailedPayment(ctx context.Context, arg domain.PaymentParams) error
	History(ctx context.Context, arg domain.ListHistoryParams) ([]domain.HistoryEntry, error)
}

// Catalog resolves payable services.
type Catalog interface {
	GetService(ctx context.Context, code string) (domain.Service, error)
}

// OutcomeKind tells how an attempt to move money ended.
type OutcomeKind int

// Outcome kinds.
const (
	// Committed means the money moved and the ledger holds a SUCCESS record.
	Committed OutcomeKind = iota
	// Rejected means a business rule refused the attempt; nothing was written.
	Rejected
	// RolledBack means the attempt failed unexpectedly and was undone.
	RolledBack
)

func (k OutcomeKind) String() string {
	switch k {
	case Committed:
		return "committed"
	case Rejected:
		return "rejected"
	case RolledBack:
		return "rolled back"
	}

	return "unknown"
}

// Outcome is the result of a single attempt.
type Outcome struct {
	Kind    OutcomeKind
	Balance int64 // set when Committed
	Reason  error // set when Rejected or RolledBack
}

// NewOutcome classifies the result of a repository attempt.
func NewOutcome(balance int64, err error) Outcome {
	switch {
	case err == nil:
		return Outcome{Kind: Committed, Balance: balance}
	case errors.Is(err, domain.ErrInsufficientBalance), errors.Is(err, domain.ErrUserNotFound):
		return Outcome{Kind: Rejected, Reason: err}
	default:
		return Outcome{Kind: RolledBack, Reason: err}
	}
}

// DefaultAuditTimeout is used when New is given a non positive audit timeout.
const DefaultAuditTimeout = 5 * time.Second

// Service facilitates ledger service layer logic.
type Service struct {
	repo         Repo
	catalog      Catalog
	auditTimeout time.Duration
}

// New return ledger service struct to manage money movements.
//
// auditTimeout bounds the FAILED record write that follows a rolled back attempt.
func New(lr Repo, c Catalog, auditTimeout time.Duration) *Service {
	if auditTimeout <= 0 {
		auditTimeout = DefaultAuditTimeout
	}

	return &Service{
		repo:         lr,
		catalog:      c,
		auditTimeout: auditTimeout,
	}
}

// GetBalance returns the user's current balance.
func (s *Service) GetBalance(ctx context.Context, userID int64) (int64, error) {
	return s.repo.Balance(ctx, userID)
}

// TopUp credits amount to the user's balance and returns the new balance.
func (s *Service) TopUp(ctx context.Context, userID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	arg := domain.TopUpParams{
		UserID: userID,
		Amount: amount,
	}

	res, err := s.repo.TopUp(ctx, arg)
	out := NewOutcome(res.Balance, err)

	return s.settle(ctx, out, func(ctx context.Context) error {
		return s.repo.RecordFailedTopUp(ctx, arg)
	})
}

// Payment charges the tariff of the service to the user and returns the new balance.
//
// The service is resolved before anything is written; an unknown code fails with
// domain.ErrServiceNotFound.
func (s *Service) Payment(ctx context.Context, userID int64, serviceCode string) (int64, error) {
	service, err := s.catalog.GetService(ctx, serviceCode)
	if err != nil {
		return 0, err
	}

	arg := domain.PaymentParams{
		UserID:  userID,
		Service: service,
	}

	res, err := s.repo.Payment(ctx, arg)
	out := NewOutcome(res.Balance, err)

	return s.settle(ctx, out, func(ctx context.Context) error {
		return s.repo.RecordFailedPayment(ctx, arg)
	})
}

// GetHistory returns the user's ledger, newest first.
func (s *Service) GetHistory(ctx context.Context, arg domain.ListHistoryParams) ([]domain.HistoryEntry, error) {
	return s.repo.History(ctx, arg)
}

func (s *Service) settle(ctx context.Context, out Outcome, audit func(context.Context) error) (int64, error) {
	switch out.Kind {
	case Committed:
		return out.Balance, nil
	case Rejected:
		zerolog.Ctx(ctx).Info().Err(out.Reason).Stringer("outcome", out.Kind).Send()
		return 0, out.Reason
	default:
		zerolog.Ctx(ctx).Error().Err(out.Reason).Stringer("outcome", out.Kind).Send()
		s.recordFailureAudit(ctx, audit)

		return 0, errorspkg.ErrInternal
	}
}

// recordFailureAudit writes the FAILED record of a rolled back attempt.
//
// It outlives the request context and its errors are only logged.
func (s *Service) recordFailureAudit(ctx context.Context, audit func(context.Context) error) {
	l := zerolog.Ctx(ctx)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.auditTimeout)
	defer cancel()

	if err := audit(ctx); err != nil {
		l.Error().Err(err).Msg("failure audit write failed")
	}
}
