package consumer

import (
	"context"

	"github.com/richardliu001/order-event-service/internal/engine"
	"github.com/richardliu001/order-event-service/internal/event"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MsgTypeHeader names the envelope attribute carrying the event kind.
const MsgTypeHeader = "X-MsgType"

// Recognized header values.
const (
	MsgTypeOrder   = "OrderEvent"
	MsgTypePayment = "PaymentEvent"
)

// Outcome classifies what the router did with one envelope.
type Outcome int

const (
	// OutcomeOrder and OutcomePayment mean the payload was decoded and
	// handed to the matching reconciliation path.
	OutcomeOrder Outcome = iota
	OutcomePayment
	// OutcomeNoHeader means the envelope carried no type header. Normal
	// condition, discarded without touching the engine.
	OutcomeNoHeader
	// OutcomeUnknownType means the header value is not a recognized
	// kind. Same discard policy.
	OutcomeUnknownType
	// OutcomeMalformed means the payload failed to decode under a
	// recognized type. The event is dropped and the error surfaced.
	OutcomeMalformed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOrder:
		return "order"
	case OutcomePayment:
		return "payment"
	case OutcomeNoHeader:
		return "no-header"
	case OutcomeUnknownType:
		return "unknown-type"
	case OutcomeMalformed:
		return "malformed"
	}
	return "unknown"
}

// Router reads an envelope's type header and forwards the decoded
// payload to the engine. Routing itself never touches storage.
type Router struct {
	engine *engine.Engine
	log    *zap.SugaredLogger
}

// NewRouter returns Router.
func NewRouter(e *engine.Engine, logger *zap.SugaredLogger) *Router {
	return &Router{engine: e, log: logger}
}

// Route dispatches one message. The returned error is non-nil for decode
// failures (wrapping event.ErrMalformedPayload) and for storage failures
// propagated out of the engine; the caller decides the ack either way.
func (r *Router) Route(ctx context.Context, msg kafka.Message) (Outcome, error) {
	tag, ok := msgType(msg)
	if !ok {
		return OutcomeNoHeader, nil
	}
	switch tag {
	case MsgTypeOrder:
		evt, err := event.DecodeOrder(msg.Value)
		if err != nil {
			return OutcomeMalformed, err
		}
		return OutcomeOrder, r.engine.ProcessOrder(ctx, evt)
	case MsgTypePayment:
		evt, err := event.DecodePayment(msg.Value)
		if err != nil {
			return OutcomeMalformed, err
		}
		_, err = r.engine.ProcessPayment(ctx, evt)
		return OutcomePayment, err
	default:
		return OutcomeUnknownType, nil
	}
}

func msgType(msg kafka.Message) (string, bool) {
	for _, h := range msg.Headers {
		if h.Key == MsgTypeHeader {
			return string(h.Value), true
		}
	}
	return "", false
}
