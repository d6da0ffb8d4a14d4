package consumer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/richardliu001/order-event-service/internal/engine"
	"github.com/richardliu001/order-event-service/internal/event"
	"github.com/richardliu001/order-event-service/internal/model"
	"github.com/richardliu001/order-event-service/internal/repo"
	"github.com/richardliu001/order-event-service/internal/report"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (*Router, *gorm.DB, context.Context) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&model.Order{}, &model.Payment{}))

	log := zap.NewNop().Sugar()
	repository := repo.NewRepository(db, nil, log)
	eng := engine.NewEngine(repository, report.NewLogReporter(log), log)
	return NewRouter(eng, log), db, context.Background()
}

func msg(headers []kafka.Header, payload string) kafka.Message {
	return kafka.Message{Headers: headers, Value: []byte(payload)}
}

func typed(msgType, payload string) kafka.Message {
	return msg([]kafka.Header{{Key: MsgTypeHeader, Value: []byte(msgType)}}, payload)
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	var n int64
	assert.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestRoute_OrderEvent(t *testing.T) {
	r, db, ctx := newTestRouter(t)

	out, err := r.Route(ctx, typed(MsgTypeOrder, `{"Id":"1","Product":"Testing product","Total":10000.00,"Currency":"CZK"}`))
	assert.NoError(t, err)
	assert.Equal(t, OutcomeOrder, out)
	assert.EqualValues(t, 1, countRows(t, db, &model.Order{}))
}

func TestRoute_PaymentEvent(t *testing.T) {
	r, db, ctx := newTestRouter(t)

	out, err := r.Route(ctx, typed(MsgTypePayment, `{"OrderId":"1","Amount":5000.00}`))
	assert.NoError(t, err)
	assert.Equal(t, OutcomePayment, out)
	assert.EqualValues(t, 1, countRows(t, db, &model.Payment{}))
}

// An envelope without a type header is discarded without touching
// storage and without raising an error.
func TestRoute_NoHeader(t *testing.T) {
	r, db, ctx := newTestRouter(t)

	out, err := r.Route(ctx, msg(nil, `{"Id":"1"}`))
	assert.NoError(t, err)
	assert.Equal(t, OutcomeNoHeader, out)
	assert.EqualValues(t, 0, countRows(t, db, &model.Order{}))
	assert.EqualValues(t, 0, countRows(t, db, &model.Payment{}))
}

func TestRoute_UnknownType(t *testing.T) {
	r, db, ctx := newTestRouter(t)

	out, err := r.Route(ctx, typed("RefundEvent", `{}`))
	assert.NoError(t, err)
	assert.Equal(t, OutcomeUnknownType, out)
	assert.EqualValues(t, 0, countRows(t, db, &model.Order{}))
}

// A malformed payload under a recognized type is reported, not persisted.
func TestRoute_MalformedPayload(t *testing.T) {
	r, db, ctx := newTestRouter(t)

	out, err := r.Route(ctx, typed(MsgTypeOrder, `{"Id":`))
	assert.ErrorIs(t, err, event.ErrMalformedPayload)
	assert.Equal(t, OutcomeMalformed, out)
	assert.EqualValues(t, 0, countRows(t, db, &model.Order{}))

	out, err = r.Route(ctx, typed(MsgTypePayment, `not json`))
	assert.ErrorIs(t, err, event.ErrMalformedPayload)
	assert.Equal(t, OutcomeMalformed, out)
	assert.EqualValues(t, 0, countRows(t, db, &model.Payment{}))
}

// A JSON null under a recognized type is the silent-skip case: routed,
// no error, nothing persisted.
func TestRoute_NullPayloadIsSilentSkip(t *testing.T) {
	r, db, ctx := newTestRouter(t)

	out, err := r.Route(ctx, typed(MsgTypeOrder, `null`))
	assert.NoError(t, err)
	assert.Equal(t, OutcomeOrder, out)

	out, err = r.Route(ctx, typed(MsgTypePayment, `null`))
	assert.NoError(t, err)
	assert.Equal(t, OutcomePayment, out)

	assert.EqualValues(t, 0, countRows(t, db, &model.Order{}))
	assert.EqualValues(t, 0, countRows(t, db, &model.Payment{}))
}
