package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/richardliu001/order-event-service/internal/config"
	"github.com/richardliu001/order-event-service/internal/model"
	"github.com/richardliu001/order-event-service/internal/repo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&model.Order{}, &model.Payment{}))

	log := zap.NewNop().Sugar()
	gw := repo.NewRepository(db, nil, log)
	router := NewRouter(gw, config.RateLimitConfig{RPS: 100, Burst: 100}, log)
	return router, db
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "127.0.0.1:12345"
	router.ServeHTTP(w, req)
	return w
}

func TestOrderStatusEndpoint(t *testing.T) {
	router, db := newTestServer(t)

	assert.NoError(t, db.Create(&model.Order{
		ID: "1", Product: "Testing product",
		Total: decimal.RequireFromString("10000.00"), Currency: "CZK",
	}).Error)
	assert.NoError(t, db.Create(&model.Payment{ID: "p1", OrderID: "1", Amount: decimal.RequireFromString("5000.00")}).Error)

	w := get(router, "/v1/orders/1")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "1", body["id"])
	assert.Equal(t, "UNPAID", body["status"])

	assert.NoError(t, db.Create(&model.Payment{ID: "p2", OrderID: "1", Amount: decimal.RequireFromString("5000.00")}).Error)

	w = get(router, "/v1/orders/1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "PAID", body["status"])
}

func TestOrderStatusEndpoint_NotFound(t *testing.T) {
	router, _ := newTestServer(t)

	w := get(router, "/v1/orders/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentsEndpoint(t *testing.T) {
	router, db := newTestServer(t)

	for i := 0; i < 3; i++ {
		assert.NoError(t, db.Create(&model.Payment{
			ID: fmt.Sprintf("p%d", i), OrderID: "9", Amount: decimal.NewFromInt(int64(i + 1)),
		}).Error)
	}

	w := get(router, "/v1/orders/9/payments?limit=2")
	assert.Equal(t, http.StatusOK, w.Code)

	var ps []model.Payment
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &ps))
	assert.Len(t, ps, 2)
}
