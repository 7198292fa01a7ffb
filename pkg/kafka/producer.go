package kafka

import (
	"context"
	"crypto/tls"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

const defaultBatchTimeout = 10 * time.Millisecond

// SASL carries broker credentials. Mechanism is PLAIN (the default),
// SCRAM-SHA-256 or SCRAM-SHA-512.
type SASL struct {
	Mechanism string
	Username  string
	Password  string
}

// Config holds the broker connection settings of a Producer.
type Config struct {
	SASL         *SASL
	ClientID     string
	Brokers      []string
	BatchTimeout time.Duration
	TLS          bool
}

// Message is a single record to publish. Headers are written in key order.
type Message struct {
	Headers map[string]string
	Key     []byte
	Value   []byte
}

// Producer publishes to any number of topics over one shared transport,
// keeping a writer per topic.
type Producer struct {
	transport    *kafkago.Transport
	writers      map[string]*kafkago.Writer
	brokers      []string
	batchTimeout time.Duration
	mu           sync.Mutex
}

// NewProducer validates cfg and builds a Producer. No connection is opened
// until the first Publish or Ping.
func NewProducer(cfg Config) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}

	transport := &kafkago.Transport{ClientID: cfg.ClientID}
	if cfg.TLS {
		transport.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if cfg.SASL != nil {
		mechanism, err := cfg.SASL.mechanism()
		if err != nil {
			return nil, err
		}
		transport.SASL = mechanism
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = defaultBatchTimeout
	}

	return &Producer{
		transport:    transport,
		writers:      make(map[string]*kafkago.Writer),
		brokers:      slices.Clone(cfg.Brokers),
		batchTimeout: batchTimeout,
	}, nil
}

func (s *SASL) mechanism() (sasl.Mechanism, error) {
	switch s.Mechanism {
	case "PLAIN", "":
		return plain.Mechanism{Username: s.Username, Password: s.Password}, nil
	case "SCRAM-SHA-256", "SCRAM-SHA-512":
		algo := scram.SHA256
		if s.Mechanism == "SCRAM-SHA-512" {
			algo = scram.SHA512
		}
		m, err := scram.Mechanism(algo, s.Username, s.Password)
		if err != nil {
			return nil, fmt.Errorf("kafka: %s: %w", s.Mechanism, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("kafka: unsupported SASL mechanism %q", s.Mechanism)
	}
}

// Publish writes messages to topic in one batch.
func (p *Producer) Publish(ctx context.Context, topic string, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}

	batch := make([]kafkago.Message, len(messages))
	for i, msg := range messages {
		batch[i] = kafkago.Message{Key: msg.Key, Value: msg.Value}
		for _, k := range slices.Sorted(maps.Keys(msg.Headers)) {
			batch[i].Headers = append(batch[i].Headers, kafkago.Header{Key: k, Value: []byte(msg.Headers[k])})
		}
	}

	if err := p.writer(topic).WriteMessages(ctx, batch...); err != nil {
		return fmt.Errorf("kafka: publish to %s: %w", topic, err)
	}
	return nil
}

// Ping asks the cluster for its metadata, which proves that a broker is
// reachable and that authentication succeeds.
func (p *Producer) Ping(ctx context.Context) error {
	client := &kafkago.Client{Addr: kafkago.TCP(p.brokers...), Transport: p.transport}
	if _, err := client.Metadata(ctx, &kafkago.MetadataRequest{}); err != nil {
		return fmt.Errorf("kafka: metadata: %w", err)
	}
	return nil
}

// Close flushes and closes every writer.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("kafka: close writer for %s: %w", topic, err)
		}
	}
	clear(p.writers)
	return firstErr
}

func (p *Producer) writer(topic string) *kafkago.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: p.batchTimeout,
		RequiredAcks: kafkago.RequireAll,
		Transport:    p.transport,
	}
	p.writers[topic] = w
	return w
}
