package events

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.yml")
	if err := os.WriteFile(path, []byte("brokers: [localhost:9092]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Topic != "ferry.migrations" {
		t.Fatalf("default topic = %q", cfg.Topic)
	}
	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != "localhost:9092" {
		t.Fatalf("brokers = %v", cfg.Brokers)
	}
}

func TestNewPublisher_NoBrokersIsAbsent(t *testing.T) {
	pub, err := NewPublisher(Config{})
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}
	if pub != nil {
		t.Fatal("expected absent publisher without brokers")
	}
	// nil publisher is a no-op, not a panic
	if err := pub.Publish(MigrationEvent{Workflow: "default"}); err != nil {
		t.Fatalf("Publish on absent publisher: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("Close on absent publisher: %v", err)
	}
}

func TestPublish_FillsIdentityAndEncodes(t *testing.T) {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	mp := mocks.NewAsyncProducer(t, sc)
	mp.ExpectInputAndSucceed()

	pub := newWithProducer(Config{Topic: "ferry.migrations"}, mp)
	err := pub.Publish(MigrationEvent{
		Workflow:          "default",
		RequestedRevision: "abc",
		CurrentRevision:   "abc",
		Status:            "ok",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msg := <-mp.Successes()
	if msg.Topic != "ferry.migrations" {
		t.Fatalf("topic = %q", msg.Topic)
	}
	raw, err := msg.Value.Encode()
	if err != nil {
		t.Fatalf("encode value: %v", err)
	}
	var ev MigrationEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if ev.ID == "" || ev.Timestamp.IsZero() {
		t.Fatalf("identity not filled: %+v", ev)
	}
	if ev.Workflow != "default" || ev.Status != "ok" {
		t.Fatalf("unexpected event: %+v", ev)
	}

	key, _ := msg.Key.(sarama.StringEncoder)
	if string(key) != "default" {
		t.Fatalf("key = %q", key)
	}

	if err := pub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
