package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Authorizer is the boundary to the acquiring bank.
type Authorizer interface {
	Authorize(ctx context.Context, payment PaymentRequest) (Authorization, error)
}

// ProcessResult is the caller-visible outcome of a submission. It always
// echoes the submitted amount, currency, expiry and last four digits; ID is
// set only on the authorized path.
type ProcessResult struct {
	ID           *uuid.UUID
	Status       PaymentStatus
	Amount       int64
	Currency     string
	ExpiryMonth  int
	ExpiryYear   int
	CardLastFour string
}

// PaymentService orchestrates validation, authorization and recording. It is
// the only component aware of all three collaborators.
type PaymentService struct {
	authorizer Authorizer
	store      *PaymentStore
	logger     *slog.Logger
	metrics    *Metrics
	now        func() time.Time
}

func NewPaymentService(authorizer Authorizer, store *PaymentStore, logger *slog.Logger, metrics *Metrics) *PaymentService {
	return &PaymentService{
		authorizer: authorizer,
		store:      store,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Process runs a submission to one of its terminal states. A validation
// rejection or an acquirer decline produce a Declined result without an
// error; only acquirer unavailability escapes as an error, and nothing is
// persisted on that path.
func (s *PaymentService) Process(ctx context.Context, req PaymentRequest) (ProcessResult, error) {
	result := ProcessResult{
		Status:       StatusDeclined,
		Amount:       req.Amount,
		Currency:     req.Currency,
		ExpiryMonth:  req.ExpiryMonth,
		ExpiryYear:   req.ExpiryYear,
		CardLastFour: req.LastFour(),
	}

	if err := Validate(req, s.now()); err != nil {
		s.logger.Warn("payment rejected by validation",
			"reason", err.Error(),
			"currency", req.Currency,
			"expiryMonth", req.ExpiryMonth,
			"expiryYear", req.ExpiryYear)
		s.metrics.observeOutcome(outcomeRejected)
		return result, nil
	}

	start := time.Now()
	auth, err := s.authorizer.Authorize(ctx, req)
	s.metrics.observeAcquirerDuration(time.Since(start).Seconds())

	if err != nil {
		s.logger.Error("acquirer call failed", "error", err)
		s.metrics.observeOutcome(outcomeFailed)
		return ProcessResult{}, fmt.Errorf("authorize payment: %w", err)
	}

	if !auth.Approved {
		s.logger.Info("payment declined by acquirer", "currency", req.Currency, "amount", req.Amount)
		s.metrics.observeOutcome(outcomeDeclined)
		return result, nil
	}

	// The full card number must never enter the store; truncation happens
	// here, at record construction.
	record := PaymentRecord{
		ID:           auth.Code,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Status:       StatusAuthorized,
		ExpiryMonth:  req.ExpiryMonth,
		ExpiryYear:   req.ExpiryYear,
		CardLastFour: req.LastFour(),
	}

	if err := s.store.Insert(record); err != nil {
		s.logger.Error("failed to record authorized payment", "paymentId", record.ID, "error", err)
		s.metrics.observeOutcome(outcomeFailed)
		return ProcessResult{}, fmt.Errorf("record payment %s: %w", record.ID, err)
	}

	s.logger.Info("payment authorized", "paymentId", record.ID, "currency", record.Currency, "amount", record.Amount)
	s.metrics.observeOutcome(outcomeAuthorized)

	id := auth.Code
	result.ID = &id
	result.Status = StatusAuthorized
	return result, nil
}

// Get returns the recorded payment for id, or ErrPaymentNotFound.
func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (PaymentRecord, error) {
	record, err := s.store.Get(id)
	if err != nil {
		s.logger.Debug("payment lookup miss", "paymentId", id)
		return PaymentRecord{}, err
	}
	return record, nil
}
