package payments

import (
	"fmt"
	"time"
)

const (
	ReasonExpiredYear         = "expired-year"
	ReasonExpiredMonth        = "expired-month"
	ReasonUnsupportedCurrency = "unsupported-currency"
)

// ValidationError marks a request that failed a business admissibility rule.
// It is a terminal decline, not a service failure.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("payment rejected: %s", e.Reason)
}

// Validate applies the admissibility rules to a payment request against the
// given date. Rules run in order and the first failure wins. Field-shape
// checks happen at the HTTP boundary; requests reaching here are well formed.
func Validate(req PaymentRequest, today time.Time) error {
	if req.ExpiryYear < today.Year() {
		return &ValidationError{Reason: ReasonExpiredYear}
	}
	if req.ExpiryYear == today.Year() && req.ExpiryMonth < int(today.Month()) {
		return &ValidationError{Reason: ReasonExpiredMonth}
	}
	if !CurrencySupported(req.Currency) {
		return &ValidationError{Reason: ReasonUnsupportedCurrency}
	}
	return nil
}
