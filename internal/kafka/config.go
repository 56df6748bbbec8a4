package kafka

import (
	"strings"
	"time"
)

// Суффиксы топиков событий. Полное имя топика: <prefix>.<suffix>
const (
	SuffixCustomerCreated = "customer.created"
	SuffixProductCreated  = "product.created"
	SuffixOrderCreated    = "order.created"
)

const defaultTopicPrefix = "crm"

// Config конфигурация публикации событий в Kafka
type Config struct {
	Brokers           []string
	TopicPrefix       string
	Partitions        int
	ReplicationFactor int
	WriteTimeout      time.Duration
}

// NewConfig создает конфигурацию с настройками по умолчанию
func NewConfig(brokers []string, topicPrefix string) Config {
	return Config{
		Brokers:           brokers,
		TopicPrefix:       topicPrefix,
		Partitions:        3,
		ReplicationFactor: 1,
		WriteTimeout:      15 * time.Second,
	}
}

// Topic возвращает полное имя топика для суффикса
func (c Config) Topic(suffix string) string {
	prefix := strings.Trim(strings.TrimSpace(c.TopicPrefix), ".")
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	return prefix + "." + suffix
}

// Topics возвращает имена всех топиков событий CRM
func (c Config) Topics() []string {
	return []string{
		c.Topic(SuffixCustomerCreated),
		c.Topic(SuffixProductCreated),
		c.Topic(SuffixOrderCreated),
	}
}
