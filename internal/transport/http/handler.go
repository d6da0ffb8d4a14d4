package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richardliu001/order-event-service/internal/repo"
	"github.com/richardliu001/order-event-service/internal/report"
)

func RegisterHandlers(r *gin.Engine, gw repo.GatewayInterface) {
	v1 := r.Group("/v1")
	{
		v1.GET("/orders/:id", orderHandler(gw))
		v1.GET("/orders/:id/payments", paymentsHandler(gw))
	}
}

func orderHandler(gw repo.GatewayInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		o, err := gw.FindOrder(c, id)
		if err != nil {
			if errors.Is(err, repo.ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		paid, err := gw.SumPayments(c, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		status := report.StatusUnpaid
		if paid.GreaterThanOrEqual(o.Total) {
			status = report.StatusPaid
		}
		c.JSON(http.StatusOK, gin.H{
			"id":       o.ID,
			"product":  o.Product,
			"total":    o.Total,
			"currency": o.Currency,
			"paid":     paid,
			"status":   status,
		})
	}
}

func paymentsHandler(gw repo.GatewayInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		ps, err := gw.ListPayments(c, id, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, ps)
	}
}
