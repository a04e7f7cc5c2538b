package helpers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// rabbitConn is a connection with one channel bound to a durable queue.
type rabbitConn struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
}

func dialQueue(url, queue string) (rabbitConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return rabbitConn{}, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return rabbitConn{}, err
	}
	if err := DeclareQueue(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return rabbitConn{}, err
	}
	return rabbitConn{conn: conn, ch: ch, Queue: queue}, nil
}

// DeclareQueue declares the durable queue shared by publisher and worker.
func DeclareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	return err
}

func (r *rabbitConn) close() {
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}

// RabbitPublisher publishes JSON jobs to one queue.
type RabbitPublisher struct {
	rabbitConn
}

func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	rc, err := dialQueue(url, queue)
	if err != nil {
		return nil, err
	}
	return &RabbitPublisher{rabbitConn: rc}, nil
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	p.close()
}

// PublishJSON publishes a persistent JSON message to the queue.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		publishing(b, time.Now()),
	)
}

func publishing(body []byte, now time.Time) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    now.UTC(),
		Body:         body,
	}
}

// RabbitConsumer reads deliveries from one queue with manual acks.
type RabbitConsumer struct {
	rabbitConn
	tag string
}

// NewRabbitConsumer connects and limits unacked deliveries to prefetch.
func NewRabbitConsumer(url, queue string, prefetch int) (*RabbitConsumer, error) {
	rc, err := dialQueue(url, queue)
	if err != nil {
		return nil, err
	}
	if err := rc.ch.Qos(prefetch, 0, false); err != nil {
		rc.close()
		return nil, err
	}
	return &RabbitConsumer{rabbitConn: rc, tag: "consumer-" + uuid.NewString()[:8]}, nil
}

// Deliveries starts consuming. The channel closes after Stop or Close.
func (c *RabbitConsumer) Deliveries() (<-chan amqp.Delivery, error) {
	return c.ch.Consume(c.Queue, c.tag, false, false, false, false, nil)
}

// Stop asks the broker to stop sending; deliveries already received stay
// on the channel until drained.
func (c *RabbitConsumer) Stop() error {
	return c.ch.Cancel(c.tag, false)
}

func (c *RabbitConsumer) Close() {
	if c == nil {
		return
	}
	c.close()
}
