// Package publisher dispatches command events to the messaging substrate on
// a bounded worker pool, so a slow broker never blocks a request handler.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	kaf "github.com/reybrally/product-composite-service/internal/adapters/kafka"
	"github.com/reybrally/product-composite-service/internal/logging"
)

var ErrClosed = errors.New("publisher closed")

// Config sizes the worker pool. Both values are configuration inputs, never
// hardcoded by callers.
type Config struct {
	PoolSize   int
	QueueDepth int
}

type task struct {
	topic   string
	key     []byte
	body    []byte
	headers map[string]string
}

// EventPublisher serializes write intents into command events and hands them
// to Kafka on a fixed-size pool with a fixed pending queue. When pool and
// queue are both saturated, Publish blocks until a slot frees or the caller's
// context ends; nothing is dropped silently.
type EventPublisher struct {
	producer kaf.Producer
	tasks    chan task
	wg       sync.WaitGroup
	service  string

	mu     sync.RWMutex
	closed bool
}

func New(producer kaf.Producer, cfg Config, serviceName string) *EventPublisher {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 1
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 1
	}
	p := &EventPublisher{
		producer: producer,
		tasks:    make(chan task, cfg.QueueDepth),
		service:  serviceName,
	}
	for i := 0; i < cfg.PoolSize; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Publish marshals the event and queues it for delivery. Returning nil means
// the event is accepted for publish, not that downstream state has changed.
func (p *EventPublisher) Publish(ctx context.Context, topic string, key int, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// The read lock spans the channel send so Close cannot close the task
	// channel under an in-flight submission.
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	t := task{
		topic: topic,
		key:   []byte(strconv.Itoa(key)),
		body:  body,
		headers: map[string]string{
			"message_id": uuid.New().String(),
			"producer":   p.service,
		},
	}

	select {
	case p.tasks <- t:
		logging.LogDebug("event accepted for publish", logrus.Fields{"topic": topic, "key": key})
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *EventPublisher) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := p.producer.Publish(ctx, t.topic, t.key, t.body, t.headers)
		cancel()
		if err != nil {
			logging.LogError("event publish failed", err, logrus.Fields{
				"topic": t.topic, "key": string(t.key),
			})
			continue
		}
		logging.LogDebug("event published", logrus.Fields{"topic": t.topic, "key": string(t.key)})
	}
}

// Close stops intake, drains the pending queue, and waits for the workers.
func (p *EventPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}
