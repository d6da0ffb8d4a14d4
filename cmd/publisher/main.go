package main

import (
	"context"
	"fmt"

	"github.com/richardliu001/order-event-service/internal/config"
	"github.com/richardliu001/order-event-service/internal/consumer"
	"github.com/richardliu001/order-event-service/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Seeds the topic with a deliberately out-of-order scenario: two payments
// for order 1 land before the order itself. The consumer must persist
// both payments, report the order missing twice, then reconcile once the
// order arrives.
func main() {
	cfg, err := config.Load("internal/config/config.yaml")
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}

	log, err := logger.NewLogger()
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer log.Sync()

	w := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Brokers...),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	defer w.Close()

	msgs := []kafka.Message{
		envelope(consumer.MsgTypePayment, `{"OrderId":"1","Amount":5000.00}`),
		envelope(consumer.MsgTypePayment, `{"OrderId":"1","Amount":5000.00}`),
		envelope(consumer.MsgTypeOrder, `{"Id":"1","Product":"Testing product","Total":10000.00,"Currency":"CZK"}`),
	}

	if err := w.WriteMessages(context.Background(), msgs...); err != nil {
		log.Fatalf("publish: %v", err)
	}
	log.Infof("published %d test envelopes to %s", len(msgs), cfg.Kafka.Topic)
}

func envelope(msgType, payload string) kafka.Message {
	return kafka.Message{
		Headers: []kafka.Header{{Key: consumer.MsgTypeHeader, Value: []byte(msgType)}},
		Value:   []byte(payload),
	}
}
