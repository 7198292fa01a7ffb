package kafka

import (
	"context"
	"testing"
	"time"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092", "localhost:9093"}, ClientID: "heartrisk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.brokers) != 2 || p.brokers[0] != "localhost:9092" {
		t.Fatalf("unexpected brokers %v", p.brokers)
	}
	if p.transport.TLS != nil || p.transport.SASL != nil {
		t.Error("expected plain transport when TLS and SASL are off")
	}
	if p.transport.ClientID != "heartrisk" {
		t.Errorf("expected client id heartrisk, got %q", p.transport.ClientID)
	}
	if p.batchTimeout != defaultBatchTimeout {
		t.Errorf("expected default batch timeout, got %v", p.batchTimeout)
	}
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	if _, err := NewProducer(Config{}); err == nil {
		t.Fatal("expected error without brokers")
	}
}

func TestNewProducerWithTLSAndSASL(t *testing.T) {
	for _, mech := range []string{"", "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"} {
		t.Run(mech, func(t *testing.T) {
			p, err := NewProducer(Config{
				Brokers: []string{"kafka:9093"},
				TLS:     true,
				SASL:    &SASL{Mechanism: mech, Username: "heartrisk", Password: "secret"},
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.transport.TLS == nil {
				t.Error("expected TLS config on transport")
			}
			if p.transport.SASL == nil {
				t.Error("expected SASL mechanism on transport")
			}
			if w := p.writer("heartrisk.predictions"); w.Transport != p.transport {
				t.Error("expected writer to share the producer transport")
			}
		})
	}
}

func TestNewProducerRejectsUnknownSASLMechanism(t *testing.T) {
	_, err := NewProducer(Config{
		Brokers: []string{"kafka:9093"},
		SASL:    &SASL{Mechanism: "GSSAPI"},
	})
	if err == nil {
		t.Fatal("expected error for unsupported mechanism")
	}
}

func TestWriterPerTopic(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}, BatchTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w1 := p.writer("topic-a")
	if w1 != p.writer("topic-a") {
		t.Error("expected same writer instance for same topic")
	}
	if w1 == p.writer("topic-b") {
		t.Error("expected different writer instance for different topic")
	}
	if w1.BatchTimeout != time.Second {
		t.Errorf("expected configured batch timeout, got %v", w1.BatchTimeout)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}
	if len(p.writers) != 0 {
		t.Errorf("expected 0 writers after close, got %d", len(p.writers))
	}
}

func TestPublishNothingIsNoop(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"127.0.0.1:1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Publish(context.Background(), "topic-a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.writers) != 0 {
		t.Error("expected no writer for an empty publish")
	}
}

func TestPingUnreachableBroker(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"127.0.0.1:1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Ping(ctx); err == nil {
		t.Fatal("expected ping to fail against a closed port")
	}
}
