package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/richardliu001/order-event-service/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrOrderNotFound is returned by FindOrder when no order exists for the id.
var ErrOrderNotFound = errors.New("order not found")

const orderCacheTTL = 30 * time.Minute

// GatewayInterface restricts Repository methods (unit test mocks).
type GatewayInterface interface {
	DB(ctx context.Context) *gorm.DB
	InsertOrder(ctx context.Context, o *model.Order) error
	InsertPayment(ctx context.Context, p *model.Payment) error
	FindOrder(ctx context.Context, id string) (*model.Order, error)
	SumPayments(ctx context.Context, orderID string) (decimal.Decimal, error)
	ListPayments(ctx context.Context, orderID string, limit int) ([]model.Payment, error)
}

// Repository implements GatewayInterface over Postgres with a redis
// read-through cache for orders.
type Repository struct {
	db  *gorm.DB
	rdb *redis.Client
	log *zap.SugaredLogger
}

// NewRepository constructs repo.
func NewRepository(db *gorm.DB, rdb *redis.Client, logger *zap.SugaredLogger) *Repository {
	return &Repository{db: db, rdb: rdb, log: logger}
}

// DB returns underlying *gorm.DB
func (r *Repository) DB(ctx context.Context) *gorm.DB { return r.db.WithContext(ctx) }

// InsertOrder creates the order row. A duplicate producer id violates the
// primary key and the driver error is returned as-is for the caller to
// surface; swallowing it would hide payments pointing at a ghost order.
func (r *Repository) InsertOrder(ctx context.Context, o *model.Order) error {
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		return err
	}
	r.cacheOrder(ctx, o)
	return nil
}

// InsertPayment appends a ledger row. The id is engine-minted so there is
// no uniqueness constraint to trip on producer-supplied fields.
func (r *Repository) InsertPayment(ctx context.Context, p *model.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindOrder reads through the cache. Orders never change after insert, so
// a cached copy cannot go stale.
func (r *Repository) FindOrder(ctx context.Context, id string) (*model.Order, error) {
	if o, ok := r.cachedOrder(ctx, id); ok {
		return o, nil
	}
	var o model.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	r.cacheOrder(ctx, &o)
	return &o, nil
}

// SumPayments totals the ledger for one order, straight from the
// database on every call. The paid/unpaid projection is recomputed from
// this sum and must never be served from a cache. Summation happens in
// decimal space rather than SQL so drivers without exact numerics cannot
// shave the boundary case.
func (r *Repository) SumPayments(ctx context.Context, orderID string) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("order_id = ?", orderID).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return sum, nil
}

// ListPayments fetches ledger rows for an order, oldest first.
func (r *Repository) ListPayments(ctx context.Context, orderID string, limit int) ([]model.Payment, error) {
	var ps []model.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc").
		Limit(limit).
		Find(&ps).Error
	return ps, err
}

func (r *Repository) cacheOrder(ctx context.Context, o *model.Order) {
	if r.rdb == nil {
		return
	}
	data, err := json.Marshal(o)
	if err != nil {
		r.log.Warn(err)
		return
	}
	if err := r.rdb.Set(ctx, orderKey(o.ID), string(data), orderCacheTTL).Err(); err != nil {
		r.log.Warn(err)
	}
}

func (r *Repository) cachedOrder(ctx context.Context, id string) (*model.Order, bool) {
	if r.rdb == nil {
		return nil, false
	}
	data, err := r.rdb.Get(ctx, orderKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var o model.Order
	if err := json.Unmarshal(data, &o); err != nil {
		r.log.Warn(err)
		return nil, false
	}
	return &o, true
}

func orderKey(id string) string { return fmt.Sprintf("order:%s", id) }
