package domain

import (
	"strconv"
	"time"
)

// InvoiceNumber derives the display invoice number of a transaction.
//
// The format is INV<DDMMYYYY>-00<transactionID>, where the date is the transaction's
// creation date in the server's local time zone, whatever zone createdAt carries.
// It is not unique across id resets and must not be used as a key.
func InvoiceNumber(transactionID int64, createdAt time.Time) string {
	date := createdAt.In(time.Local).Format("02012006")

	return "INV" + date + "-00" + strconv.FormatInt(transactionID, 10)
}
