package reservations

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/imrishuroy/lex-book-reservations/internal/aws"
)

// EventPublisher sends reservation events to the reservation events queue.
type EventPublisher struct {
	publisher *aws.Publisher
}

// NewEventPublisher wraps an SQS publisher bound to the events queue.
func NewEventPublisher(p *aws.Publisher) *EventPublisher {
	return &EventPublisher{publisher: p}
}

// PublishReservation sends ev as JSON with its ids as message attributes.
func (p *EventPublisher) PublishReservation(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msgID, err := p.publisher.SendMessage(ctx, string(body), map[string]string{
		"event_id":       ev.EventID,
		"reservation_id": ev.ReservationID,
		"book_id":        ev.BookID,
	})
	if err != nil {
		return fmt.Errorf("publish reservation %s: %w", ev.ReservationID, err)
	}
	log.Printf("[events] published reservation=%s message=%s", ev.ReservationID, msgID)
	return nil
}
