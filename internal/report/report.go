package report

import (
	"github.com/richardliu001/order-event-service/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Status is the binary payment determination for an order.
type Status string

const (
	StatusPaid   Status = "PAID"
	StatusUnpaid Status = "UNPAID"
)

// Reporter receives one determination per reconciled payment event.
// Implementations are best-effort sinks invoked strictly after the
// durable write; they do not return errors and must not panic.
type Reporter interface {
	Resolved(o *model.Order, paid decimal.Decimal, status Status)
	OrderNotFound(orderID string)
}

// LogReporter emits determinations as log lines.
type LogReporter struct {
	log *zap.SugaredLogger
}

// NewLogReporter returns LogReporter.
func NewLogReporter(logger *zap.SugaredLogger) *LogReporter {
	return &LogReporter{log: logger}
}

// Resolved prints one deterministic line per determination.
func (r *LogReporter) Resolved(o *model.Order, paid decimal.Decimal, status Status) {
	r.log.Infof("Order: %s, Product: %s, Total: %s %s, Status: %s",
		o.ID, o.Product, o.Total, o.Currency, status)
}

// OrderNotFound notes a payment that arrived before its order.
func (r *LogReporter) OrderNotFound(orderID string) {
	r.log.Infof("Order: %s not found", orderID)
}
