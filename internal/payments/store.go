package payments

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrDuplicatePayment = errors.New("payment already recorded")
)

// PaymentStore keeps approved payment records for the lifetime of the
// process. Ids come from the acquirer; the store never generates them.
type PaymentStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]PaymentRecord
}

func NewPaymentStore() *PaymentStore {
	return &PaymentStore{
		records: make(map[uuid.UUID]PaymentRecord),
	}
}

// Insert adds a record keyed by its id. A duplicate id means the acquirer
// re-issued a code or the caller re-inserted; both are programmer errors.
func (s *PaymentStore) Insert(record PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.ID]; exists {
		return ErrDuplicatePayment
	}
	s.records[record.ID] = record
	return nil
}

func (s *PaymentStore) Get(id uuid.UUID) (PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return PaymentRecord{}, ErrPaymentNotFound
	}
	return record, nil
}
