package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// messageWriter часть kafka.Writer, используемая продюсером
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event конверт события, публикуемого в Kafka
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// orderPayload тело события о создании заказа
type orderPayload struct {
	ID          uuid.UUID   `json:"id"`
	CustomerID  uuid.UUID   `json:"customer_id"`
	ProductIDs  []uuid.UUID `json:"product_ids"`
	OrderDate   time.Time   `json:"order_date"`
	TotalAmount string      `json:"total_amount"`
}

// Producer публикует события о созданных записях CRM
type Producer struct {
	writer messageWriter
	cfg    Config
	log    *logger.Logger
	now    func() time.Time
}

// NewProducer создает и настраивает продюсер Kafka
func NewProducer(cfg Config, log *logger.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		log.Errorw("Kafka brokers list is empty in config, cannot create producer")
		return nil, errors.New("kafka brokers are not configured")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           10 * time.Second,
		ReadTimeout:            10 * time.Second,
		AllowAutoTopicCreation: true,
		MaxAttempts:            3,
	}

	log.Infow("Kafka producer initialized", "brokers", cfg.Brokers, "topics", cfg.Topics())
	return newProducer(writer, cfg, log), nil
}

func newProducer(writer messageWriter, cfg Config, log *logger.Logger) *Producer {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 15 * time.Second
	}
	return &Producer{writer: writer, cfg: cfg, log: log, now: time.Now}
}

// CustomerCreated публикует событие о новом клиенте
func (p *Producer) CustomerCreated(ctx context.Context, customer domain.Customer) error {
	return p.publish(ctx, SuffixCustomerCreated, customer.ID, customer)
}

// ProductCreated публикует событие о новом товаре
func (p *Producer) ProductCreated(ctx context.Context, product domain.Product) error {
	return p.publish(ctx, SuffixProductCreated, product.ID, product)
}

// OrderCreated публикует событие о новом заказе.
// Клиент и товары передаются идентификаторами.
func (p *Producer) OrderCreated(ctx context.Context, order domain.Order) error {
	payload := orderPayload{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		ProductIDs:  order.ProductIDs(),
		OrderDate:   order.OrderDate,
		TotalAmount: order.TotalAmount.StringFixed(2),
	}
	return p.publish(ctx, SuffixOrderCreated, order.ID, payload)
}

// publish оборачивает данные в Event и отправляет в топик. Ключ сообщения: ID записи.
func (p *Producer) publish(ctx context.Context, suffix string, key uuid.UUID, data any) error {
	topic := p.cfg.Topic(suffix)

	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("kafka: failed to marshal event data: %w", err)
	}

	value, err := json.Marshal(Event{
		ID:         uuid.NewString(),
		Type:       suffix,
		OccurredAt: p.now().UTC(),
		Data:       body,
	})
	if err != nil {
		return fmt.Errorf("kafka: failed to marshal event: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.cfg.WriteTimeout)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Topic: topic,
		Key:   []byte(key.String()),
		Value: value,
		Time:  p.now(),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			p.log.Errorw("Kafka write timeout exceeded", "error", err, "topic", topic, "key", key)
			return fmt.Errorf("kafka: write timeout: %w", err)
		}
		p.log.Errorw("Failed to write message to Kafka", "error", err, "topic", topic, "key", key)
		return fmt.Errorf("kafka: failed to write message: %w", err)
	}

	p.log.Debugw("Published event to Kafka", "topic", topic, "key", key)
	return nil
}

// Close закрывает Kafka Writer
func (p *Producer) Close() error {
	p.log.Infow("Closing Kafka producer writer...")
	if err := p.writer.Close(); err != nil {
		p.log.Errorw("Failed to close Kafka writer", "error", err)
		return fmt.Errorf("kafka: failed to close writer: %w", err)
	}
	p.log.Infow("Kafka producer writer closed successfully")
	return nil
}
