// Package events streams wallet movements and bet settlements to Kafka for
// the back office. The publisher is nil-safe: without KAFKA_BROKERS every
// call is a no-op, so the webhook path never depends on the broker.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeWalletDebited  = "wallet.debited"
	TypeWalletCredited = "wallet.credited"
	TypeBetSettled     = "bet.settled"
)

var writer *kafka.Writer

func Setup(brokers, topic string) {
	if brokers == "" {
		log.Println("⚠️  Kafka disabled (KAFKA_BROKERS not set)")
		return
	}
	if topic == "" {
		topic = "wallet-events"
	}
	writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	log.Println("✅ Kafka event stream at", brokers, "topic", topic)
}

type Envelope struct {
	Type    string `json:"type"`
	At      string `json:"at"`
	Payload any    `json:"payload"`
}

// Publish fires the event off the request path. Failures are logged, never
// surfaced to the provider.
func Publish(eventType string, key string, payload any) {
	if writer == nil {
		return
	}

	body, err := json.Marshal(Envelope{
		Type:    eventType,
		At:      time.Now().UTC().Format(time.RFC3339),
		Payload: payload,
	})
	if err != nil {
		log.Printf("❌ event marshal %s: %v", eventType, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(key),
			Value: body,
			Time:  time.Now(),
		}); err != nil {
			log.Printf("❌ event publish %s: %v", eventType, err)
		}
	}()
}

func Close() {
	if writer != nil {
		_ = writer.Close()
	}
}
