package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/lex-book-reservations/internal/aws"
	"github.com/imrishuroy/lex-book-reservations/internal/idempotency"
	"github.com/imrishuroy/lex-book-reservations/internal/reservations"
)

const (
	metricBookReserved = "BookReserved"
	keyPrefix          = "reservation-event:"
)

// Processor consumes reservation events and counts reservations per book.
// Every event is handled at most once, keyed by its event id.
type Processor struct {
	idempStore *idempotency.Store
	metrics    *aws.Metrics
}

// NewProcessor creates a new worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, idempTable string, ttl time.Duration, namespace string) *Processor {
	return &Processor{
		idempStore: idempotency.NewStore(clients.DynamoDB, idempTable, ttl),
		metrics:    aws.NewMetrics(clients.CloudWatch, namespace),
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("[worker] message=%s: %v", rec.MessageId, err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var ev reservations.Event
	if err := json.Unmarshal([]byte(rec.Body), &ev); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if ev.EventID == "" || ev.ReservationID == "" {
		return fmt.Errorf("event missing ids: %s", rec.Body)
	}

	log.Printf("[worker] received event=%s reservation=%s book=%s", ev.EventID, ev.ReservationID, ev.BookID)

	key := keyPrefix + ev.EventID
	created, err := p.idempStore.CreateIfNotExists(ctx, key, ev.ReservationID)
	if err != nil {
		return fmt.Errorf("failed to claim event: %w", err)
	}
	if !created {
		proceed, err := p.resolveDuplicate(ctx, key, ev.EventID)
		if err != nil || !proceed {
			return err
		}
	}

	if err := p.metrics.Count(ctx, metricBookReserved, map[string]string{"BookId": ev.BookID}); err != nil {
		if mfErr := p.idempStore.MarkFailed(ctx, key, err.Error()); mfErr != nil {
			log.Printf("[worker] mark failed event=%s: %v", ev.EventID, mfErr)
		}
		return fmt.Errorf("failed to record metric: %w", err)
	}

	if err := p.idempStore.MarkDone(ctx, key, ev.ReservationID, "", 0); err != nil {
		return fmt.Errorf("failed to update idempotency: %w", err)
	}

	log.Printf("[worker] processed event=%s reservation=%s", ev.EventID, ev.ReservationID)
	return nil
}

// resolveDuplicate reports whether a redelivered event should be processed again.
func (p *Processor) resolveDuplicate(ctx context.Context, key, eventID string) (bool, error) {
	existing, err := p.idempStore.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read idempotency record: %w", err)
	}
	if existing == nil {
		return false, fmt.Errorf("idempotency record for event=%s vanished", eventID)
	}

	switch existing.Status {
	case idempotency.StatusDone:
		log.Printf("[worker] already processed event=%s", eventID)
		return false, nil
	case idempotency.StatusInProgress:
		log.Printf("[worker] duplicate delivery for event=%s", eventID)
		return false, nil
	case idempotency.StatusFailed:
		released, err := p.idempStore.Release(ctx, key)
		if err != nil {
			return false, fmt.Errorf("failed to release event: %w", err)
		}
		return released, nil
	default:
		return false, fmt.Errorf("unexpected status for event=%s: %s", eventID, existing.Status)
	}
}

func getLocalBody() string {
	if body := os.Getenv("LOCAL_SQS_BODY"); body != "" {
		return body
	}
	now := time.Now().UTC()
	ev := reservations.Event{
		EventID:       "local-event-1",
		ReservationID: reservations.NewID(now, "local@example.com"),
		BookID:        "1",
		BookName:      "Dune",
		UserID:        "local@example.com",
		CreatedAt:     now,
		Expiration:    now.AddDate(0, 0, 7),
	}
	body, _ := json.Marshal(ev)
	return string(body)
}
