package domain

import (
	"errors"
	"time"
)

var (
	// ErrInsufficientBalance indicates that the user balance does not cover the tariff.
	ErrInsufficientBalance = errors.New("Saldo tidak mencukupi")
	// ErrInvalidAmount indicates a non positive amount.
	ErrInvalidAmount = errors.New("invalid amount")
)

// TransactionType tells which kind of money movement a transaction records.
type TransactionType string

// Transaction types.
const (
	TransactionTopUp   TransactionType = "TOPUP"
	TransactionPayment TransactionType = "PAYMENT"
)

// Status is the terminal state of a money movement attempt.
type Status string

// Attempt statuses.
const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// TopUpDescription describes top up entries in the history.
const TopUpDescription = "Top Up balance"

// Transaction is one attempted money movement of a user.
type Transaction struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Amount    int64           `json:"amount"` // always positive
	Type      TransactionType `json:"transaction_type"`
	CreatedAt time.Time       `json:"created_at"`
}

// TopUp is the top up specific record of a Transaction.
type TopUp struct {
	TransactionID int64     `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	Status        Status    `json:"status"`
	InvoiceNumber string    `json:"invoice_number"`
	CreatedAt     time.Time `json:"created_at"`
}

// Payment is the payment specific record of a Transaction.
//
// ServiceName is a snapshot taken at purchase time.
type Payment struct {
	TransactionID int64     `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	Status        Status    `json:"status"`
	InvoiceNumber string    `json:"invoice_number"`
	ServiceName   string    `json:"service_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// TopUpParams is the input data for the top up transaction.
type TopUpParams struct {
	UserID int64
	Amount int64
}

// PaymentParams is the input data for the payment transaction.
type PaymentParams struct {
	UserID  int64
	Service Service
}

// TopUpTxResult is the result of the top up transaction.
type TopUpTxResult struct {
	Transaction Transaction
	TopUp       TopUp
	Balance     int64
}

// PaymentTxResult is the result of the payment transaction.
type PaymentTxResult struct {
	Transaction Transaction
	Payment     Payment
	Balance     int64
}

// HistoryEntry is a Transaction merged with its type specific record.
type HistoryEntry struct {
	InvoiceNumber   string          `json:"invoice_number"`
	TransactionType TransactionType `json:"transaction_type"`
	Description     string          `json:"description"`
	TotalAmount     int64           `json:"total_amount"`
	Status          Status          `json:"status,omitempty"`
	CreatedOn       time.Time       `json:"created_on"`
}

// ListHistoryParams selects a page of the history, a zero Limit means no limit.
type ListHistoryParams struct {
	UserID int64
	Limit  int32
	Offset int32
}
