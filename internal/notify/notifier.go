package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pos_sales/internal/sales"
)

const defaultTimeout = 10 * time.Second

// Channel is one external destination for sale notifications.
type Channel interface {
	Name() string
	Send(ctx context.Context, sale *sales.Sale) error
}

// ChannelError reports a failed delivery on one channel.
type ChannelError struct {
	Channel string
	Err     error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("%s notification failed: %v", e.Channel, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// Notifier sends every committed sale to all of its channels, best effort.
type Notifier struct {
	channels []Channel
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates a Notifier. A non-positive timeout uses the default.
func New(logger *zap.Logger, timeout time.Duration, channels ...Channel) *Notifier {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Notifier{
		channels: channels,
		timeout:  timeout,
		logger:   logger,
	}
}

// Channels returns the names of the configured channels.
func (n *Notifier) Channels() []string {
	names := make([]string, 0, len(n.channels))
	for _, ch := range n.channels {
		names = append(names, ch.Name())
	}
	return names
}

// Notify delivers sale to every channel concurrently and returns one
// *ChannelError per failed channel. It returns within the notifier timeout
// and ignores cancellation of ctx, so an abandoned request does not cut the
// deliveries short.
func (n *Notifier) Notify(ctx context.Context, sale *sales.Sale) []error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	results := make([]error, len(n.channels))
	var g errgroup.Group
	for i, ch := range n.channels {
		i, ch := i, ch
		g.Go(func() error {
			results[i] = n.send(ctx, ch, sale)
			return nil
		})
	}
	_ = g.Wait()

	errs := make([]error, 0)
	for _, err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (n *Notifier) send(ctx context.Context, ch Channel, sale *sales.Sale) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ChannelError{Channel: ch.Name(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := ch.Send(ctx, sale); err != nil {
		return &ChannelError{Channel: ch.Name(), Err: err}
	}

	n.logger.Info("sale notification sent",
		zap.String("channel", ch.Name()),
		zap.Int("sequence_number", sale.SequenceNumber),
	)
	return nil
}
