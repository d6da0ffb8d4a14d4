package http

import (
	"github.com/gin-gonic/gin"
	"github.com/richardliu001/order-event-service/internal/config"
	"github.com/richardliu001/order-event-service/internal/repo"
	"go.uber.org/zap"
)

func NewRouter(gw repo.GatewayInterface, rl config.RateLimitConfig, log *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(LoggingMiddleware(log))
	r.Use(RateLimitMiddleware(rl.RPS, rl.Burst))
	RegisterHandlers(r, gw)
	return r
}
