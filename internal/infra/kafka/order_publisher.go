package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"storefront/internal/domain/model"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafkaに流す注文作成イベント
type OrderCreatedEvent struct {
	OrderID       int64            `json:"order_id"`
	ClientName    string           `json:"client_name"`
	ClientSurname string           `json:"client_surname"`
	City          string           `json:"city"`
	TotalPrice    decimal.Decimal  `json:"total_price"`
	Status        string           `json:"status"`
	Items         []model.CartLine `json:"items"`
	CreatedAt     time.Time        `json:"created_at"`
}

func NewOrderCreatedEvent(order model.Order, lines []model.CartLine) OrderCreatedEvent {
	items := make([]model.CartLine, len(lines))
	copy(items, lines)

	return OrderCreatedEvent{
		OrderID:       order.ID,
		ClientName:    order.ClientName,
		ClientSurname: order.ClientSurname,
		City:          order.City,
		TotalPrice:    order.TotalPrice,
		Status:        string(order.Status),
		Items:         items,
		CreatedAt:     order.CreatedAt.UTC(),
	}
}

// レコード（key=注文ID、value=JSON）
func NewOrderCreatedRecord(topic string, order model.Order, lines []model.CartLine) (*kgo.Record, error) {
	value, err := json.Marshal(NewOrderCreatedEvent(order, lines))
	if err != nil {
		return nil, errors.Wrap(err, "marshal order event")
	}
	return &kgo.Record{
		Topic: topic,
		Key:   []byte(strconv.FormatInt(order.ID, 10)),
		Value: value,
	}, nil
}

type OrderPublisher struct {
	client *kgo.Client
	topic  string
}

func NewOrderPublisher(brokers []string, topic string) (*OrderPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(0),
		kgo.RecordRetries(3),
	)
	if err != nil {
		return nil, errors.Wrap(err, "kafka client")
	}
	return &OrderPublisher{client: client, topic: topic}, nil
}

func (p *OrderPublisher) Name() string {
	return "kafka-order-created"
}

// 注文確定後フック。送れなくても注文は確定済み。
func (p *OrderPublisher) OnOrderCreated(ctx context.Context, order model.Order, lines []model.CartLine) error {
	rec, err := NewOrderCreatedRecord(p.topic, order, lines)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return errors.Wrapf(err, "produce order %d", order.ID)
	}
	return nil
}

func (p *OrderPublisher) Close() {
	p.client.Close()
}
