package payments

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	StatusAuthorized PaymentStatus = "Authorized"
	StatusDeclined   PaymentStatus = "Declined"
)

// PaymentRequest carries a single card-payment submission. It lives only for
// the duration of the request; the full card number is never stored.
type PaymentRequest struct {
	CardNumber  string
	ExpiryMonth int
	ExpiryYear  int
	Currency    string
	Amount      int64
	CVV         string
}

// LastFour returns the last four digits of the submitted card number.
func (r PaymentRequest) LastFour() string {
	if len(r.CardNumber) < 4 {
		return r.CardNumber
	}
	return r.CardNumber[len(r.CardNumber)-4:]
}

// PaymentRecord is the persisted representation of an approved payment. The
// id is issued by the acquirer; records are immutable once inserted.
type PaymentRecord struct {
	ID           uuid.UUID
	Amount       int64
	Currency     string
	Status       PaymentStatus
	ExpiryMonth  int
	ExpiryYear   int
	CardLastFour string
}

var supportedCurrencies = map[string]struct{}{
	"EUR": {},
	"USD": {},
	"GBP": {},
}

// CurrencySupported reports whether the gateway accepts payments in the
// given ISO currency code.
func CurrencySupported(code string) bool {
	_, ok := supportedCurrencies[code]
	return ok
}
