package sales

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pos_sales/internal/jsonstore"
)

// ErrInvalidSale is returned when appending a sale without any product line.
var ErrInvalidSale = errors.New("sale has no product lines")

// Ledger is the append-only history of committed sales.
type Ledger struct {
	storage jsonstore.Storage[Sale]
	now     func() time.Time
}

// NewLedger instantiates a Ledger over storage.
func NewLedger(storage jsonstore.Storage[Sale]) *Ledger {
	return &Ledger{
		storage: storage,
		now:     time.Now,
	}
}

// GetAll returns every sale in append order.
func (l *Ledger) GetAll() ([]Sale, error) {
	return l.storage.GetAll()
}

// NextSequenceNumber returns the number the next appended sale would receive.
func (l *Ledger) NextSequenceNumber() (int, error) {
	all, err := l.storage.GetAll()
	if err != nil {
		return 0, err
	}
	return len(all) + 1, nil
}

// Append stores c as a new sale numbered ledger length + 1.
// Numbering happens inside the storage update, so concurrent appends never
// share a number.
func (l *Ledger) Append(c Candidate) (*Sale, error) {
	if !c.hasProductLine() {
		return nil, ErrInvalidSale
	}

	var sale Sale
	err := l.storage.Update(func(sales []Sale) ([]Sale, error) {
		sale = Sale{
			ID:             uuid.NewString(),
			SequenceNumber: len(sales) + 1,
			Candidate:      c,
			CreatedAt:      l.now().UTC(),
		}
		return append(sales, sale), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append sale: %w", err)
	}
	return &sale, nil
}

// Reset removes every sale. The next Append is numbered 1.
func (l *Ledger) Reset() error {
	err := l.storage.Update(func([]Sale) ([]Sale, error) {
		return []Sale{}, nil
	})
	if err != nil {
		return fmt.Errorf("failed to reset ledger: %w", err)
	}
	return nil
}
