package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"turfbooking/internal/entities"
)

const publishTimeout = 5 * time.Second

// AMQPNotifier publishes slot-update events to a topic exchange so external
// consumers (other instances, analytics) can follow availability changes.
type AMQPNotifier struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewAMQPNotifier(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error opening RabbitMQ channel: %w", err)
	}
	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("error declaring exchange %q: %w", exchange, err)
	}
	return &AMQPNotifier{conn: conn, channel: channel, exchange: exchange}, nil
}

// Publish is fire-and-forget: a broker fault is logged, never surfaced to the
// booking path.
func (n *AMQPNotifier) Publish(turfID int, date string, slots []entities.Slot) {
	event := entities.SlotUpdateEvent{TurfID: turfID, Date: date, Slots: slots}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling slot update for turf %d: %v", turfID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	routingKey := fmt.Sprintf("turf.%d.%s", turfID, date)
	err = n.channel.PublishWithContext(ctx, n.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Body:        body,
	})
	if err != nil {
		log.Printf("Error publishing slot update for turf %d %s: %v", turfID, date, err)
	}
}

func (n *AMQPNotifier) Close() {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}
