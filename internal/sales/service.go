package sales

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pos_sales/internal/catalog"
)

var (
	// ErrResetNotRequested is returned when confirming a reset that was never asked for or has expired.
	ErrResetNotRequested = errors.New("ledger reset was not requested")
	// ErrResetTokenInvalid is returned when the confirmation token does not match the pending request.
	ErrResetTokenInvalid = errors.New("invalid reset confirmation token")
)

const defaultResetTTL = time.Minute

// CatalogReader provides the catalog snapshot a session sells from.
type CatalogReader interface {
	Load() ([]catalog.Product, error)
}

// Notifier delivers a committed sale to external channels. Each returned
// error is one failed channel.
type Notifier interface {
	Notify(ctx context.Context, sale *Sale) []error
}

// CommitResult is a committed sale plus the channels that could not be notified.
type CommitResult struct {
	Sale     *Sale    `json:"sale"`
	Warnings []string `json:"notification_warnings"`
}

// ResetChallenge is the first step of a ledger reset.
type ResetChallenge struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service provides high-level sale recording, reporting and reset operations.
type Service struct {
	ledger   *Ledger
	catalog  CatalogReader
	notifier Notifier
	logger   *zap.Logger
	resetTTL time.Duration
	now      func() time.Time

	mu           sync.Mutex
	pendingReset *ResetChallenge
}

// NewService creates a new Service. notifier may be nil.
func NewService(ledger *Ledger, products CatalogReader, notifier Notifier, logger *zap.Logger, resetTTL time.Duration) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if resetTTL <= 0 {
		resetTTL = defaultResetTTL
	}

	return &Service{
		ledger:   ledger,
		catalog:  products,
		notifier: notifier,
		logger:   logger,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

// StartSession opens a Builder over the current catalog.
func (s *Service) StartSession() (*Builder, error) {
	products, err := s.catalog.Load()
	if err != nil {
		return nil, err
	}
	return NewBuilder(products), nil
}

// NextSequenceNumber returns the number the next committed sale will receive.
func (s *Service) NextSequenceNumber() (int, error) {
	n, err := s.ledger.NextSequenceNumber()
	if err != nil {
		s.logger.Error("failed to read ledger", zap.Error(err))
		return 0, fmt.Errorf("failed to read ledger: %w", err)
	}
	return n, nil
}

// Commit appends the builder's pending candidate to the ledger and notifies
// the configured channels. Notification failures never undo the sale; they
// come back as warnings.
//
// Commit returns only after every channel has finished or timed out, so its
// latency includes notification and is bounded by the notifier's timeout
// (NOTIFY_TIMEOUT_SECONDS). Cancelling ctx does not cut notification short.
func (s *Service) Commit(ctx context.Context, b *Builder) (*CommitResult, error) {
	var sale *Sale
	err := b.confirm(func(c Candidate) error {
		var err error
		sale, err = s.ledger.Append(c)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrNoCandidate) && !errors.Is(err, ErrSessionClosed) {
			s.logger.Error("failed to commit sale", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("sale committed",
		zap.String("sale_id", sale.ID),
		zap.Int("sequence_number", sale.SequenceNumber),
		zap.String("total", sale.Total.StringFixed(2)),
	)

	result := &CommitResult{Sale: sale, Warnings: []string{}}
	if s.notifier == nil {
		return result, nil
	}

	for _, err := range s.notifier.Notify(ctx, sale) {
		s.logger.Warn("sale notification failed", zap.Int("sequence_number", sale.SequenceNumber), zap.Error(err))
		result.Warnings = append(result.Warnings, err.Error())
	}
	return result, nil
}

// Report aggregates the ledger for display.
func (s *Service) Report(f Filter) (Report, error) {
	all, err := s.ledger.GetAll()
	if err != nil {
		s.logger.Error("failed to load sales", zap.Error(err))
		return Report{}, fmt.Errorf("failed to retrieve sales: %w", err)
	}

	report, err := Aggregate(all, f)
	if err != nil {
		return Report{}, err
	}

	s.logger.Info("sales report built",
		zap.String("filter", report.Filter),
		zap.Int("count", report.Count),
		zap.String("grand_total", report.GrandTotal.StringFixed(2)),
	)
	return report, nil
}

// RequestReset starts a ledger reset. The returned token must be passed to
// ConfirmReset before it expires. A new request replaces any earlier one.
func (s *Service) RequestReset() ResetChallenge {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenge := ResetChallenge{
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.resetTTL).UTC(),
	}
	s.pendingReset = &challenge

	s.logger.Warn("ledger reset requested", zap.Time("expires_at", challenge.ExpiresAt))
	return challenge
}

// ConfirmReset deletes every sale and restarts numbering at 1.
func (s *Service) ConfirmReset(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.pendingReset
	if pending == nil {
		return ErrResetNotRequested
	}
	if s.now().After(pending.ExpiresAt) {
		s.pendingReset = nil
		return ErrResetNotRequested
	}
	if token != pending.Token {
		return ErrResetTokenInvalid
	}

	if err := s.ledger.Reset(); err != nil {
		s.logger.Error("failed to reset ledger", zap.Error(err))
		return err
	}
	s.pendingReset = nil

	s.logger.Warn("ledger reset")
	return nil
}
