// Package events publishes domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// RoutingKeyDailyPlanArchived is used for every archived day.
const RoutingKeyDailyPlanArchived = "daily_plan.archived"

// DailyPlanArchived is the message body published when a day rolls over.
type DailyPlanArchived struct {
	Type       string            `json:"type"`
	UserID     string            `json:"user_id"`
	Date       string            `json:"date"`
	Summary    nutrition.Summary `json:"summary"`
	Plan       *models.DailyPlan `json:"plan"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type dialFunc func() (channel, func() error, error)

// Publisher sends archive events to a topic exchange. The connection is
// opened lazily and re-opened once when a publish fails.
type Publisher struct {
	exchange string
	dial     dialFunc
	log      logrus.FieldLogger
	now      func() time.Time

	mu        sync.Mutex
	ch        channel
	closeConn func() error
}

// NewPublisher creates a publisher for url that declares exchange as a durable topic exchange.
func NewPublisher(url, exchange string, log logrus.FieldLogger) *Publisher {
	return newPublisher(exchange, amqpDialer(url, exchange), log)
}

func newPublisher(exchange string, dial dialFunc, log logrus.FieldLogger) *Publisher {
	return &Publisher{exchange: exchange, dial: dial, log: log, now: time.Now}
}

func amqpDialer(url, exchange string) dialFunc {
	return func() (channel, func() error, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, nil, fmt.Errorf("error in creating rabbitmq connection: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("channel: %w", err)
		}
		if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("error in declaring the exchange %s: %w", exchange, err)
		}
		return ch, conn.Close, nil
	}
}

func (p *Publisher) connect() error {
	if p.ch != nil {
		return nil
	}
	ch, closeConn, err := p.dial()
	if err != nil {
		return err
	}
	p.ch, p.closeConn = ch, closeConn
	return nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.closeConn != nil {
		p.closeConn()
	}
	p.ch, p.closeConn = nil, nil
}

// Archive publishes a DailyPlanArchived event for plan.
func (p *Publisher) Archive(ctx context.Context, plan *models.DailyPlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(DailyPlanArchived{
		Type:       RoutingKeyDailyPlanArchived,
		UserID:     plan.UserID.String(),
		Date:       plan.Date,
		Summary:    nutrition.ComputeSummary(plan),
		Plan:       plan,
		OccurredAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now(),
		Type:         RoutingKeyDailyPlanArchived,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if err := p.connect(); err != nil {
			lastErr = err
			continue
		}
		err := p.ch.Publish(p.exchange, RoutingKeyDailyPlanArchived, false, false, msg)
		if err == nil {
			return nil
		}
		lastErr = err
		p.log.WithError(err).Debug("Publish failed, reconnecting")
		p.reset()
	}
	return fmt.Errorf("failed to publish %s: %w", RoutingKeyDailyPlanArchived, lastErr)
}

// Close releases the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	var errs []error
	if err := p.ch.Close(); err != nil {
		errs = append(errs, err)
	}
	if p.closeConn != nil {
		if err := p.closeConn(); err != nil {
			errs = append(errs, err)
		}
	}
	p.ch, p.closeConn = nil, nil
	return errors.Join(errs...)
}
