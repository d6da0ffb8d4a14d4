package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/richardliu001/order-event-service/internal/event"
	"github.com/richardliu001/order-event-service/internal/model"
	"github.com/richardliu001/order-event-service/internal/repo"
	"github.com/richardliu001/order-event-service/internal/report"
	"go.uber.org/zap"
)

// Resolution is the outcome of reconciling a single payment event.
type Resolution int

const (
	// ResolutionSkipped means the decoded event was null; nothing was
	// persisted and no error raised.
	ResolutionSkipped Resolution = iota
	// ResolutionPaid means the order's ledger now covers its total.
	ResolutionPaid
	// ResolutionUnpaid means the ledger still falls short of the total.
	ResolutionUnpaid
	// ResolutionOrderNotFound means the payment was persisted but the
	// referenced order does not exist yet. Non-fatal: the payment waits
	// in the ledger until the order arrives.
	ResolutionOrderNotFound
)

// Engine reconciles order and payment events against the ledger.
// It holds no locks: the status is a query-time projection over an
// append-only ledger, so a racing pair of payments can at worst emit a
// duplicate or late notification, never corrupt stored state.
type Engine struct {
	repo     repo.GatewayInterface
	reporter report.Reporter
	log      *zap.SugaredLogger
}

// NewEngine returns Engine.
func NewEngine(r repo.GatewayInterface, rep report.Reporter, logger *zap.SugaredLogger) *Engine {
	return &Engine{repo: r, reporter: rep, log: logger}
}

// ProcessOrder persists a decoded order event verbatim, keeping the
// producer-supplied id. An insert failure (duplicate id, storage down)
// propagates to the caller; the transport's ack semantics decide what
// happens to the envelope.
func (e *Engine) ProcessOrder(ctx context.Context, evt *event.OrderEvent) error {
	if evt == nil {
		return nil
	}
	o := &model.Order{
		ID:       evt.ID,
		Product:  evt.Product,
		Total:    evt.Total,
		Currency: evt.Currency,
	}
	if err := e.repo.InsertOrder(ctx, o); err != nil {
		return err
	}
	e.log.Infof("order %s stored: %s, %s %s", o.ID, o.Product, o.Total, o.Currency)
	return nil
}

// ProcessPayment persists a decoded payment event under a freshly minted
// id, then recomputes the paid/unpaid projection for the referenced
// order. Every delivery appends a new ledger row: there is no
// idempotency key, so a redelivered payment counts again.
func (e *Engine) ProcessPayment(ctx context.Context, evt *event.PaymentEvent) (Resolution, error) {
	if evt == nil {
		return ResolutionSkipped, nil
	}
	p := &model.Payment{
		ID:      uuid.NewString(),
		OrderID: evt.OrderID,
		Amount:  evt.Amount,
	}
	if err := e.repo.InsertPayment(ctx, p); err != nil {
		return ResolutionSkipped, err
	}
	e.log.Infof("payment %s stored: %s for order %s", p.ID, p.Amount, p.OrderID)

	o, err := e.repo.FindOrder(ctx, evt.OrderID)
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			e.reporter.OrderNotFound(evt.OrderID)
			return ResolutionOrderNotFound, nil
		}
		return ResolutionSkipped, err
	}

	paid, err := e.repo.SumPayments(ctx, o.ID)
	if err != nil {
		return ResolutionSkipped, err
	}

	status := report.StatusUnpaid
	if paid.GreaterThanOrEqual(o.Total) {
		status = report.StatusPaid
	}
	e.reporter.Resolved(o, paid, status)
	if status == report.StatusPaid {
		return ResolutionPaid, nil
	}
	return ResolutionUnpaid, nil
}
