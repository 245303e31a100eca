package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/abhisek/skillcheck/internal/logger"
	"github.com/abhisek/skillcheck/internal/quizgen"
)

// DefaultExchange is the topic exchange events go to.
const DefaultExchange = "skillcheck.events"

const publishTimeout = 5 * time.Second

// Publisher emits quiz lifecycle events.
type Publisher interface {
	PublishQuizGenerated(ctx context.Context, q *quizgen.Quiz) error
	PublishQuizGraded(ctx context.Context, r *quizgen.GradeResult) error
	Close() error
}

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes persistent JSON messages to a durable topic
// exchange. Safe for concurrent use.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	log      *logger.Logger
	now      func() time.Time
}

// Dial connects to url and declares exchange. An empty exchange selects
// DefaultExchange.
func Dial(url, exchange string, log *logger.Logger) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	p := newAMQPPublisher(ch, exchange, log)
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch channel, exchange string, log *logger.Logger) *AMQPPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &AMQPPublisher{ch: ch, exchange: exchange, log: log, now: time.Now}
}

func (p *AMQPPublisher) publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.ch.PublishWithContext(pubCtx, p.exchange, string(ev.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    ev.Timestamp,
		Type:         string(ev.Type),
		Body:         body,
	})
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	p.log.Debug("published event", "type", ev.Type, "id", ev.ID)
	return nil
}

func (p *AMQPPublisher) PublishQuizGenerated(ctx context.Context, q *quizgen.Quiz) error {
	return p.publish(ctx, NewQuizGenerated(q, p.now()))
}

func (p *AMQPPublisher) PublishQuizGraded(ctx context.Context, r *quizgen.GradeResult) error {
	return p.publish(ctx, NewQuizGraded(r, p.now()))
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishQuizGenerated(context.Context, *quizgen.Quiz) error { return nil }
func (NopPublisher) PublishQuizGraded(context.Context, *quizgen.GradeResult) error { return nil }
func (NopPublisher) Close() error { return nil }

// New returns an AMQPPublisher for url, or a NopPublisher when url is
// empty.
func New(url, exchange string, log *logger.Logger) (Publisher, error) {
	if url == "" {
		return NopPublisher{}, nil
	}
	return Dial(url, exchange, log)
}

// Sink adapts a Publisher to quizgen.Sink.
type Sink struct {
	Publisher Publisher
}

func (s Sink) QuizGenerated(ctx context.Context, q *quizgen.Quiz) error {
	return s.Publisher.PublishQuizGenerated(ctx, q)
}

var _ quizgen.Sink = Sink{}
