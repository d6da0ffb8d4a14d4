package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrMalformedPayload wraps every decode failure so the consumer can
// tell a bad payload apart from a storage error when deciding the ack.
var ErrMalformedPayload = errors.New("malformed payload")

// The producer serializes with PascalCase keys; the tags below pin the
// wire format rather than relying on Go field-name matching.

// OrderEvent announces a new order. The id is producer-assigned.
type OrderEvent struct {
	ID       string          `json:"Id"`
	Product  string          `json:"Product"`
	Total    decimal.Decimal `json:"Total"`
	Currency string          `json:"Currency"`
}

// PaymentEvent reports money received against an order. It deliberately
// carries no record id; the engine mints one when persisting.
type PaymentEvent struct {
	OrderID string          `json:"OrderId"`
	Amount  decimal.Decimal `json:"Amount"`
}

// DecodeOrder parses an order payload. A JSON null yields (nil, nil):
// the caller skips the event without treating it as a failure. A payload
// of the wrong shape, including one missing the id, is malformed.
func DecodeOrder(body []byte) (*OrderEvent, error) {
	var evt *OrderEvent
	if err := decodeStrict(body, &evt); err != nil {
		return nil, fmt.Errorf("%w: order event: %v", ErrMalformedPayload, err)
	}
	if evt != nil && evt.ID == "" {
		return nil, fmt.Errorf("%w: order event: missing Id", ErrMalformedPayload)
	}
	return evt, nil
}

// DecodePayment parses a payment payload, with the same null and shape
// policy.
func DecodePayment(body []byte) (*PaymentEvent, error) {
	var evt *PaymentEvent
	if err := decodeStrict(body, &evt); err != nil {
		return nil, fmt.Errorf("%w: payment event: %v", ErrMalformedPayload, err)
	}
	if evt != nil && evt.OrderID == "" {
		return nil, fmt.Errorf("%w: payment event: missing OrderId", ErrMalformedPayload)
	}
	return evt, nil
}

// decodeStrict rejects fields outside the declared shape, so a payload
// of one event kind cannot slide through under the other kind's tag.
func decodeStrict(body []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
