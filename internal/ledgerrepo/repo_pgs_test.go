package ledgerrepo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/google/go-cmp/cmp"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// Statement fragments, matched as regular expressions against whitespace collapsed SQL.
const (
	addBalanceSQL   = `UPDATE users SET balance = balance \+ \$1`
	lockUserSQL     = `SELECT .* FROM users WHERE id = \$1 FOR UPDATE`
	insertTxSQL     = `INSERT INTO transactions`
	insertTopUpSQL  = `INSERT INTO topups`
	insertPaySQL    = `INSERT INTO payments`
	historySQL      = `FROM transactions t`
	getBalanceSQL   = `SELECT balance FROM users`
	testUserID      = int64(42)
	testTxID        = int64(7)
	testInvoice     = "INV15102026-007"
	testServiceName = "Pulsa"
)

var testCreatedAt = time.Date(2026, 10, 15, 9, 30, 0, 0, time.Local)

var pulsa = domain.Service{Code: "PULSA", Name: testServiceName, Icon: "/images/pulsa.png", Tariff: 40_000}

func newMock(t *testing.T) (*RepoPGS, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return NewRepoPGS(db), mock
}

func balanceRows(b int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"balance"}).AddRow(b)
}

func userRows(balance int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "first_name", "last_name", "hashed_password", "profile_image", "balance", "created_at",
	}).AddRow(testUserID, "user@example.com", "User", "Wallet", "hash", "", balance, testCreatedAt)
}

func txRows(amount int64, typ domain.TransactionType) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "amount", "transaction_type", "created_at"}).
		AddRow(testTxID, testUserID, amount, string(typ), testCreatedAt)
}

func topUpRows(amount int64, status domain.Status) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"transaction_id", "amount", "status", "invoice_number", "created_at"}).
		AddRow(testTxID, amount, string(status), testInvoice, testCreatedAt)
}

func paymentRows(amount int64, status domain.Status) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"transaction_id", "amount", "status", "invoice_number", "service_name", "created_at"}).
		AddRow(testTxID, amount, string(status), testInvoice, testServiceName, testCreatedAt)
}

func TestTopUp(t *testing.T) {
	t.Parallel()

	const amount = int64(10_000)

	arg := domain.TopUpParams{UserID: testUserID, Amount: amount}

	testCases := []struct {
		name       string
		buildStubs func(m sqlmock.Sqlmock)
		want       domain.TopUpTxResult
		wantErr    error
	}{
		{
			name: "OK",
			buildStubs: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(addBalanceSQL).WithArgs(amount, testUserID).WillReturnRows(balanceRows(15_000))
				m.ExpectQuery(insertTxSQL).WithArgs(testUserID, amount, "TOPUP").
					WillReturnRows(txRows(amount, domain.TransactionTopUp))
				m.ExpectQuery(insertTopUpSQL).WithArgs(testTxID, amount, "SUCCESS", testInvoice).
					WillReturnRows(topUpRows(amount, domain.StatusSuccess))
				m.ExpectCommit()
			},
			want: domain.TopUpTxResult{
				Transaction: domain.Transaction{
					ID:        testTxID,
					UserID:    testUserID,
					Amount:    amount,
					Type:      domain.TransactionTopUp,
					CreatedAt: testCreatedAt,
				},
				TopUp: domain.TopUp{
					TransactionID: testTxID,
					Amount:        amount,
					Status:        domain.StatusSuccess,
					InvoiceNumber: testInvoice,
					CreatedAt:     testCreatedAt,
				},
				Balance: 15_000,
			},
		},
		{
			name: "TransactionInsertFailsAfterIncrement",
			buildStubs: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(addBalanceSQL).WithArgs(amount, testUserID).WillReturnRows(balanceRows(15_000))
				m.ExpectQuery(insertTxSQL).WillReturnError(sql.ErrConnDone)
				m.ExpectRollback()
			},
			wantErr: errorspkg.ErrInternal,
		},
		{
			name: "TopUpInsertFails",
			buildStubs: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(addBalanceSQL).WithArgs(amount, testUserID).WillReturnRows(balanceRows(15_000))
				m.ExpectQuery(insertTxSQL).WillReturnRows(txRows(amount, domain.TransactionTopUp))
				m.ExpectQuery(insertTopUpSQL).WillReturnError(&pq.Error{Code: "23505", Constraint: "topups_transaction_id_key"})
				m.ExpectRollback()
			},
			wantErr: errorspkg.ErrInternal,
		},
		{
			name: "ErrUserNotFound",
			buildStubs: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(addBalanceSQL).WithArgs(amount, testUserID).WillReturnError(sql.ErrNoRows)
				m.ExpectRollback()
			},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "CommitFails",
			buildStubs: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(addBalanceSQL).WillReturnRows(balanceRows(15_000))
				m.ExpectQuery(insertTxSQL).WillReturnRows(txRows(amount, domain.TransactionTopUp))
				m.ExpectQuery(insertTopUpSQL).WillReturnRows(topUpRows(amount, domain.StatusSuccess))
				m.ExpectCommit().WillReturnError(sql.ErrConnDone)
			},
			wantErr: errorspkg.ErrInternal,
		},
		{
			name: "BeginFails",
			buildStubs: func(m sqlmock.Sqlmock) {
				m.ExpectBegin().WillReturnError(sql.ErrConnDone)
			},
			wantErr: errorspkg.ErrInternal,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newMock(t)
			tc.buildStubs(mock)

			got, err := repo.TopUp(context.Background(), arg)
			require.ErrorIs(t, err, tc.wantErr)

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("repo.TopUp(ctx, %+v) returned unexpected difference (-want +got):\n%s", arg, diff)
			}
		})
	}
}

func TestPayment(t *testing.T) {
	t.Parallel()

	arg := domain.PaymentParams{UserID: testUserID, Service: pulsa}

	testCases := []struct {
		name       string
		buildStubs func(m sqlmock.Sqlmock)
		want       domain.PaymentTxResult
		wantErr    error
	}{
		{
			name: "OK",
			buildStubs: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(lockUserSQL).WithArgs(testUserID).WillReturnRows(userRows(50_000))
				m.ExpectQuery(addBalanceSQL).WithArgs(-pulsa.Tariff, testUserID).WillReturnRows(balanceRows(10_000))
				m.ExpectQuery(insertTxSQL).WithArgs(testUserID, pulsa.Tariff, "PAYMENT").
					WillReturnRows(txRows(pulsa.Tariff, domain.TransactionPayment))
				m.ExpectQuery(insertPaySQL).WithArgs(testTxID, pulsa.Tariff, "SUCCESS", testInvoice, testServiceName).
					WillReturnRows(paymentRows(pulsa.Tariff, domain.StatusSuccess))
				m.ExpectCommit()
			},
			want: domain.PaymentTxResult{
				Transaction: domain.Transaction{
					ID:        testTxID,
					UserID:    testUserID,
					Amount:    pulsa.Tariff,
					Type:      domain.TransactionPayment,
					CreatedAt: testCreatedAt,
				},
				Payment: domain.Payment{
					TransactionID: testTxID,
					Amount:        pulsa.Tariff,
					Status:        domain.StatusSuccess,
					InvoiceNumber: testInvoice,
					ServiceName:   testServiceName,
					CreatedAt:     testCreatedAt,
				},
				Balance: 10_000,
			},
		},
		{
			name: "ExactBalance",
			buildStubs: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(lockUserSQL).WillReturnRows(userRows(pulsa.Tariff))
				m.ExpectQuery(addBalanceSQL).WillReturnRows(balanceRows(0))
				m.ExpectQuery(insertTxSQL).WillReturnRows(txRows(pulsa.Tariff, domain.TransactionPayment))
				m.ExpectQuery(insertPaySQL).WillReturnRows(paymentRows(pulsa.Tariff, domain.StatusSuccess))
				m.ExpectCommit()
			},
			want: domain.PaymentTxResult{
				Transaction: domain.Transaction{
					ID:        testTxID,
					UserID:    testUserID,
					Amount:    pulsa.Tariff,
					Type:      domain.TransactionPayment,
					CreatedAt: testCreatedAt,
				},
				Payment: domain.Payment{
					TransactionID: testTxID,
					Amount:        pulsa.Tariff,
					Status:        domain.StatusSuccess,
					InvoiceNumber: testInvoice,
					ServiceName:   testServiceName,
					CreatedAt:     testCreatedAt,
				},
				Balance: 0,
			},
		},
		{
			name: "ErrInsufficientBalance",
			buildStubs: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(lockUserSQL).WithArgs(testUserID).WillReturnRows(userRows(pulsa.Tariff - 1))
				m.ExpectRollback()
			},
			wantErr: domain.ErrInsufficientBalance,
		},
		{
			name: "PaymentInsertFailsAfterDebit",
			buildStubs: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(lockUserSQL).WillReturnRows(userRows(50_000))
				m.ExpectQuery(addBalanceSQL).WillReturnRows(balanceRows(10_000))
				m.ExpectQuery(insertTxSQL).WillReturnRows(txRows(pulsa.Tariff, domain.TransactionPayment))
				m.ExpectQuery(insertPaySQL).WillReturnError(sql.ErrConnDone)
				m.ExpectRollback()
			},
			wantErr: errorspkg.ErrInternal,
		},
		{
			name: "ErrUserNotFound",
			buildStubs: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(lockUserSQL).WillReturnError(sql.ErrNoRows)
				m.ExpectRollback()
			},
			wantErr: domain.ErrUserNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newMock(t)
			tc.buildStubs(mock)

			got, err := repo.Payment(context.Background(), arg)
			require.ErrorIs(t, err, tc.wantErr)

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("repo.Payment(ctx, %+v) returned unexpected difference (-want +got):\n%s", arg, diff)
			}
		})
	}
}

func TestRecordFailed(t *testing.T) {
	t.Parallel()

	t.Run("TopUp", func(t *testing.T) {
		t.Parallel()

		repo, mock := newMock(t)

		mock.ExpectQuery(insertTxSQL).WithArgs(testUserID, int64(10_000), "TOPUP").
			WillReturnRows(txRows(10_000, domain.TransactionTopUp))
		mock.ExpectQuery(insertTopUpSQL).WithArgs(testTxID, int64(10_000), "FAILED", testInvoice).
			WillReturnRows(topUpRows(10_000, domain.StatusFailed))

		err := repo.RecordFailedTopUp(context.Background(), domain.TopUpParams{UserID: testUserID, Amount: 10_000})
		require.NoError(t, err)
	})

	t.Run("Payment", func(t *testing.T) {
		t.Parallel()

		repo, mock := newMock(t)

		mock.ExpectQuery(insertTxSQL).WithArgs(testUserID, pulsa.Tariff, "PAYMENT").
			WillReturnRows(txRows(pulsa.Tariff, domain.TransactionPayment))
		mock.ExpectQuery(insertPaySQL).WithArgs(testTxID, pulsa.Tariff, "FAILED", testInvoice, testServiceName).
			WillReturnRows(paymentRows(pulsa.Tariff, domain.StatusFailed))

		err := repo.RecordFailedPayment(context.Background(), domain.PaymentParams{UserID: testUserID, Service: pulsa})
		require.NoError(t, err)
	})

	t.Run("TransactionInsertFails", func(t *testing.T) {
		t.Parallel()

		repo, mock := newMock(t)

		mock.ExpectQuery(insertTxSQL).WillReturnError(sql.ErrConnDone)

		err := repo.RecordFailedTopUp(context.Background(), domain.TopUpParams{UserID: testUserID, Amount: 10_000})
		require.ErrorIs(t, err, errorspkg.ErrInternal)
	})

	t.Run("SubRecordInsertFails", func(t *testing.T) {
		t.Parallel()

		repo, mock := newMock(t)

		mock.ExpectQuery(insertTxSQL).WillReturnRows(txRows(pulsa.Tariff, domain.TransactionPayment))
		mock.ExpectQuery(insertPaySQL).WillReturnError(sql.ErrConnDone)

		err := repo.RecordFailedPayment(context.Background(), domain.PaymentParams{UserID: testUserID, Service: pulsa})
		require.ErrorIs(t, err, errorspkg.ErrInternal)
	})
}

func TestCreateTransactionConstraints(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		constraint string
		wantErr    error
	}{
		{name: "ErrUserNotFound", constraint: "transactions_user_id_fkey", wantErr: domain.ErrUserNotFound},
		{name: "ErrInvalidAmount", constraint: "transactions_amount_check", wantErr: domain.ErrInvalidAmount},
		{name: "ErrInternal", constraint: "transactions_type_check", wantErr: errorspkg.ErrInternal},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newMock(t)

			mock.ExpectQuery(insertTxSQL).WillReturnError(&pq.Error{Constraint: tc.constraint})

			_, err := repo.CreateTransaction(context.Background(), testUserID, 1, domain.TransactionTopUp)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestBalance(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)

	mock.ExpectQuery(getBalanceSQL).WithArgs(testUserID).WillReturnRows(balanceRows(25_000))

	got, err := repo.Balance(context.Background(), testUserID)
	require.NoError(t, err)
	require.Equal(t, int64(25_000), got)
}

func TestHistory(t *testing.T) {
	t.Parallel()

	want := []domain.HistoryEntry{
		{
			InvoiceNumber:   "INV15102026-008",
			TransactionType: domain.TransactionPayment,
			Description:     testServiceName,
			TotalAmount:     pulsa.Tariff,
			Status:          domain.StatusSuccess,
			CreatedOn:       testCreatedAt.Add(time.Minute),
		},
		{
			InvoiceNumber:   testInvoice,
			TransactionType: domain.TransactionTopUp,
			Description:     domain.TopUpDescription,
			TotalAmount:     100_000,
			Status:          domain.StatusFailed,
			CreatedOn:       testCreatedAt,
		},
	}

	newRows := func() *sqlmock.Rows {
		rows := sqlmock.NewRows([]string{
			"invoice_number", "transaction_type", "description", "total_amount", "status", "created_on",
		})
		for _, h := range want {
			rows.AddRow(h.InvoiceNumber, string(h.TransactionType), h.Description, h.TotalAmount, string(h.Status), h.CreatedOn)
		}

		return rows
	}

	testCases := []struct {
		name      string
		arg       domain.ListHistoryParams
		wantLimit any
	}{
		{
			name:      "All",
			arg:       domain.ListHistoryParams{UserID: testUserID},
			wantLimit: nil,
		},
		{
			name:      "Page",
			arg:       domain.ListHistoryParams{UserID: testUserID, Limit: 2, Offset: 4},
			wantLimit: int64(2),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newMock(t)

			mock.ExpectQuery(historySQL).
				WithArgs(testUserID, domain.TopUpDescription, tc.wantLimit, int64(tc.arg.Offset)).
				WillReturnRows(newRows())

			got, err := repo.History(context.Background(), tc.arg)
			require.NoError(t, err)

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("repo.History(ctx, %+v) returned unexpected difference (-want +got):\n%s", tc.arg, diff)
			}
		})
	}
}

func TestHistoryQueryError(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)

	mock.ExpectQuery(historySQL).WillReturnError(sql.ErrConnDone)

	got, err := repo.History(context.Background(), domain.ListHistoryParams{UserID: testUserID})
	require.ErrorIs(t, err, errorspkg.ErrInternal)
	require.Nil(t, got)
}
