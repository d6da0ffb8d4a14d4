package consumer

import (
	"context"
	"errors"
	"time"

	"github.com/richardliu001/order-event-service/internal/event"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const defaultRetryDelay = 500 * time.Millisecond

// Reader is the subset of kafka.Reader the consumer needs.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Consumer pulls envelopes off the topic and runs them through the
// router. Malformed and unroutable envelopes are committed (dropped).
// A storage failure is retried in place: the group tracks a single
// committed offset per partition, so committing any later message would
// acknowledge the failed one and the broker would never redeliver it.
type Consumer struct {
	reader     Reader
	router     *Router
	log        *zap.SugaredLogger
	retryDelay time.Duration
}

// NewConsumer returns Consumer.
func NewConsumer(r Reader, router *Router, logger *zap.SugaredLogger) *Consumer {
	return &Consumer{reader: r, router: router, log: logger, retryDelay: defaultRetryDelay}
}

// Run blocks until ctx is cancelled. No condition other than
// cancellation stops the loop.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.log.Info("consumer shutting down")
				return nil
			}
			c.log.Errorf("fetch message: %v", err)
			if !c.pause(ctx) {
				return nil
			}
			continue
		}

		if !c.process(ctx, msg) {
			return nil
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Errorf("commit offset %d: %v", msg.Offset, err)
		}
	}
}

// process routes one envelope until it is safe to commit. Returns false
// when the context is cancelled mid-retry.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) bool {
	for {
		outcome, err := c.router.Route(ctx, msg)
		switch {
		case err == nil:
			if outcome == OutcomeNoHeader || outcome == OutcomeUnknownType {
				c.log.Infof("discarding envelope at offset %d: %s", msg.Offset, outcome)
			}
			return true
		case errors.Is(err, event.ErrMalformedPayload):
			c.log.Errorf("dropping envelope at offset %d: %v", msg.Offset, err)
			return true
		default:
			c.log.Errorf("processing envelope at offset %d, retrying: %v", msg.Offset, err)
			if !c.pause(ctx) {
				return false
			}
		}
	}
}

func (c *Consumer) pause(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		c.log.Info("consumer shutting down")
		return false
	case <-time.After(c.retryDelay):
		return true
	}
}
