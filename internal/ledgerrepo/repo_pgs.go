// Package ledgerrepo manages repository layer of the transaction ledger.
package ledgerrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/userrepo"
	"github.com/go-petr/pet-wallet/pkg/dbpkg"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates ledger repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns ledger RepoPGS bound to db, usually a transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns ledger RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createTransactionQuery = `
INSERT INTO
    transactions (user_id, amount, transaction_type)
VALUES
    ($1, $2, $3)
RETURNING id, user_id, amount, transaction_type, created_at
`

// CreateTransaction appends a transaction of the given type and returns it.
func (r *RepoPGS) CreateTransaction(ctx context.Context, userID, amount int64, typ domain.TransactionType) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createTransactionQuery, userID, amount, string(typ))

	var t domain.Transaction
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Amount,
		&t.Type,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("CreateTransaction(ctx, %v, %v, %v)", userID, amount, typ)

		switch dbpkg.Constraint(err) {
		case "transactions_user_id_fkey":
			return t, domain.ErrUserNotFound
		case "transactions_amount_check":
			return t, domain.ErrInvalidAmount
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const createTopUpQuery = `
INSERT INTO
    topups (transaction_id, amount, status, invoice_number)
VALUES
    ($1, $2, $3, $4)
RETURNING transaction_id, amount, status, invoice_number, created_at
`

// CreateTopUp records the top up specific part of the transaction t.
func (r *RepoPGS) CreateTopUp(ctx context.Context, t domain.Transaction, status domain.Status) (domain.TopUp, error) {
	l := zerolog.Ctx(ctx)

	invoice := domain.InvoiceNumber(t.ID, t.CreatedAt)

	row := r.db.QueryRowContext(ctx, createTopUpQuery, t.ID, t.Amount, string(status), invoice)

	var tu domain.TopUp
	err := row.Scan(
		&tu.TransactionID,
		&tu.Amount,
		&tu.Status,
		&tu.InvoiceNumber,
		&tu.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("CreateTopUp(ctx, %+v, %v)", t, status)
		return tu, errorspkg.ErrInternal
	}

	return tu, nil
}

const createPaymentQuery = `
INSERT INTO
    payments (transaction_id, amount, status, invoice_number, service_name)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING transaction_id, amount, status, invoice_number, service_name, created_at
`

// CreatePayment records the payment specific part of the transaction t.
func (r *RepoPGS) CreatePayment(ctx context.Context, t domain.Transaction, status domain.Status, serviceName string) (domain.Payment, error) {
	l := zerolog.Ctx(ctx)

	invoice := domain.InvoiceNumber(t.ID, t.CreatedAt)

	row := r.db.QueryRowContext(ctx, createPaymentQuery, t.ID, t.Amount, string(status), invoice, serviceName)

	var p domain.Payment
	err := row.Scan(
		&p.TransactionID,
		&p.Amount,
		&p.Status,
		&p.InvoiceNumber,
		&p.ServiceName,
		&p.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("CreatePayment(ctx, %+v, %v, %v)", t, status, serviceName)
		return p, errorspkg.ErrInternal
	}

	return p, nil
}

// TopUp credits the user's balance.
//
// The balance increment, the transaction and its SUCCESS top up record are written
// within a single db transaction. Nothing is written when any step fails.
func (r *RepoPGS) TopUp(ctx context.Context, arg domain.TopUpParams) (domain.TopUpTxResult, error) {
	var result domain.TopUpTxResult

	err := dbpkg.WithTx(ctx, r.conn, func(tx *sql.Tx) error {
		var err error

		ledgerRepo := NewTxRepoPGS(tx)
		userRepo := userrepo.NewRepoPGS(tx)

		result.Balance, err = userRepo.AddBalance(ctx, arg.Amount, arg.UserID)
		if err != nil {
			return err
		}

		result.Transaction, err = ledgerRepo.CreateTransaction(ctx, arg.UserID, arg.Amount, domain.TransactionTopUp)
		if err != nil {
			return err
		}

		result.TopUp, err = ledgerRepo.CreateTopUp(ctx, result.Transaction, domain.StatusSuccess)

		return err
	})

	if err != nil {
		return domain.TopUpTxResult{}, txError(ctx, err)
	}

	return result, nil
}

// Payment debits the user's balance by the service tariff.
//
// The user row stays locked from the balance check until the commit, so concurrent
// payments and top ups of the same user are applied one after another.
func (r *RepoPGS) Payment(ctx context.Context, arg domain.PaymentParams) (domain.PaymentTxResult, error) {
	var result domain.PaymentTxResult

	err := dbpkg.WithTx(ctx, r.conn, func(tx *sql.Tx) error {
		ledgerRepo := NewTxRepoPGS(tx)
		userRepo := userrepo.NewRepoPGS(tx)

		user, err := userRepo.GetForUpdate(ctx, arg.UserID)
		if err != nil {
			return err
		}

		if arg.Service.Tariff > user.Balance {
			return domain.ErrInsufficientBalance
		}

		result.Balance, err = userRepo.AddBalance(ctx, -arg.Service.Tariff, arg.UserID)
		if err != nil {
			return err
		}

		result.Transaction, err = ledgerRepo.CreateTransaction(ctx, arg.UserID, arg.Service.Tariff, domain.TransactionPayment)
		if err != nil {
			return err
		}

		result.Payment, err = ledgerRepo.CreatePayment(ctx, result.Transaction, domain.StatusSuccess, arg.Service.Name)

		return err
	})

	if err != nil {
		return domain.PaymentTxResult{}, txError(ctx, err)
	}

	return result, nil
}

// txError keeps the domain errors the caller can act on and hides the rest.
func txError(ctx context.Context, err error) error {
	switch err {
	case domain.ErrUserNotFound, domain.ErrInsufficientBalance, domain.ErrInvalidAmount, errorspkg.ErrInternal:
		return err
	}

	zerolog.Ctx(ctx).Error().Err(err).Send()

	return errorspkg.ErrInternal
}

// RecordFailedTopUp writes a FAILED top up for the given attempt.
//
// It runs outside of any transaction: the transaction row may persist without its
// top up record when the second insert fails.
func (r *RepoPGS) RecordFailedTopUp(ctx context.Context, arg domain.TopUpParams) error {
	t, err := r.CreateTransaction(ctx, arg.UserID, arg.Amount, domain.TransactionTopUp)
	if err != nil {
		return fmt.Errorf("create failed top up transaction: %w", err)
	}

	if _, err := r.CreateTopUp(ctx, t, domain.StatusFailed); err != nil {
		return fmt.Errorf("create failed top up record of transaction %d: %w", t.ID, err)
	}

	return nil
}

// RecordFailedPayment writes a FAILED payment for the given attempt.
//
// It runs outside of any transaction: the transaction row may persist without its
// payment record when the second insert fails.
func (r *RepoPGS) RecordFailedPayment(ctx context.Context, arg domain.PaymentParams) error {
	t, err := r.CreateTransaction(ctx, arg.UserID, arg.Service.Tariff, domain.TransactionPayment)
	if err != nil {
		return fmt.Errorf("create failed payment transaction: %w", err)
	}

	if _, err := r.CreatePayment(ctx, t, domain.StatusFailed, arg.Service.Name); err != nil {
		return fmt.Errorf("create failed payment record of transaction %d: %w", t.ID, err)
	}

	return nil
}

// Balance returns the balance of the user.
func (r *RepoPGS) Balance(ctx context.Context, userID int64) (int64, error) {
	return userrepo.NewRepoPGS(r.db).GetBalance(ctx, userID)
}

const historyQuery = `
SELECT
    COALESCE(tu.invoice_number, p.invoice_number, '') AS invoice_number,
    t.transaction_type,
    CASE
        WHEN t.transaction_type = 'TOPUP' THEN $2
        ELSE COALESCE(p.service_name, '')
    END AS description,
    t.amount AS total_amount,
    COALESCE(tu.status, p.status, '') AS status,
    COALESCE(tu.created_at, p.created_at, t.created_at) AS created_on
FROM transactions t
LEFT JOIN topups tu ON tu.transaction_id = t.id AND t.transaction_type = 'TOPUP'
LEFT JOIN payments p ON p.transaction_id = t.id AND t.transaction_type = 'PAYMENT'
WHERE t.user_id = $1
ORDER BY t.id DESC
LIMIT $3 OFFSET $4
`

// History returns the user's transactions, newest first.
func (r *RepoPGS) History(ctx context.Context, arg domain.ListHistoryParams) ([]domain.HistoryEntry, error) {
	l := zerolog.Ctx(ctx)

	limit := sql.NullInt32{Int32: arg.Limit, Valid: arg.Limit > 0}

	rows, err := r.db.QueryContext(ctx, historyQuery, arg.UserID, domain.TopUpDescription, limit, arg.Offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.HistoryEntry{}

	for rows.Next() {
		var h domain.HistoryEntry
		if err := rows.Scan(
			&h.InvoiceNumber,
			&h.TransactionType,
			&h.Description,
			&h.TotalAmount,
			&h.Status,
			&h.CreatedOn,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, h)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
