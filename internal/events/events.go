// Package events publishes an audit record to Kafka after each
// migration run. With no brokers configured the publisher is absent and
// every call is a no-op.
package events

import (
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
	Acks    int16    `koanf:"required_acks"` // 0,1,-1
}

// LoadConfig merges YAML (if present) with env-vars
// (prefix `FERRY_EVENTS__`, delimiter `__`).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	_ = k.Load(env.Provider("FERRY_EVENTS__", "__", nil), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	if cfg.Topic == "" {
		cfg.Topic = "ferry.migrations"
	}
	return cfg, nil
}

// MigrationEvent is the audit record for one run.
type MigrationEvent struct {
	ID                string    `json:"id"`
	Workflow          string    `json:"workflow"`
	RequestedRevision string    `json:"requested_revision"`
	CurrentRevision   string    `json:"current_revision"`
	Status            string    `json:"status"` // "ok" | "error" | "empty"
	Error             string    `json:"error,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

type Publisher struct {
	cfg Config
	p   sarama.AsyncProducer
}

// NewPublisher connects to the configured brokers. A config without
// brokers yields a nil publisher, which is safe to use.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}
	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	p, err := sarama.NewAsyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, err
	}
	return &Publisher{cfg: cfg, p: p}, nil
}

func newWithProducer(cfg Config, p sarama.AsyncProducer) *Publisher {
	return &Publisher{cfg: cfg, p: p}
}

// Publish enqueues the event. The event's ID and Timestamp are filled
// in when empty.
func (pub *Publisher) Publish(ev MigrationEvent) error {
	if pub == nil {
		return nil
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub.p.Input() <- &sarama.ProducerMessage{
		Topic: pub.cfg.Topic,
		Key:   sarama.StringEncoder(ev.Workflow),
		Value: sarama.ByteEncoder(raw),
	}
	return nil
}

func (pub *Publisher) Close() error {
	if pub == nil {
		return nil
	}
	return pub.p.Close()
}
