package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/lex-book-reservations/internal/aws"
	"github.com/imrishuroy/lex-book-reservations/internal/booking"
	"github.com/imrishuroy/lex-book-reservations/internal/books"
	"github.com/imrishuroy/lex-book-reservations/internal/config"
	"github.com/imrishuroy/lex-book-reservations/internal/intents"
	"github.com/imrishuroy/lex-book-reservations/internal/lex"
	"github.com/imrishuroy/lex-book-reservations/internal/reservations"
)

// sampleEvent is dispatched when RUN_LOCAL=true and LOCAL_LEX_EVENT is unset.
const sampleEvent = `{
  "messageVersion": "1.0",
  "invocationSource": "DialogCodeHook",
  "userId": "local-user",
  "sessionAttributes": {},
  "bot": {"name": "BookReservation", "alias": "$LATEST", "version": "$LATEST"},
  "outputDialogMode": "Text",
  "currentIntent": {
    "name": "ReserveBook",
    "slots": {"BookName": "Dune", "AuthorName": "Frank Herbert", "email": "local@example.com"},
    "confirmationStatus": "None"
  }
}`

func newDispatcher(clients *aws.AWSClients, cfg *config.Config) *lex.Dispatcher {
	bookStore := books.NewStore(clients.DynamoDB, cfg.BooksTable)
	reservationStore := reservations.NewStore(clients.DynamoDB, cfg.ReservationsTable, cfg.BooksTable)

	opts := []booking.Option{
		booking.WithLocation(cfg.Location),
		booking.WithReservationDays(cfg.ReservationDays),
	}
	if cfg.EventsQueueURL != "" {
		pub := reservations.NewEventPublisher(aws.NewPublisher(clients.SQS, cfg.EventsQueueURL))
		opts = append(opts, booking.WithEventPublisher(pub))
	}
	validator := booking.NewValidator(bookStore, reservationStore, opts...)

	d := lex.NewDispatcher()
	d.Register(intents.IntentReserveBook, intents.NewReserveBook(validator, aws.NewMetrics(clients.CloudWatch, cfg.MetricsNamespace)))
	return d
}

// runLocal dispatches LOCAL_LEX_EVENT, or sampleEvent, and writes the response to w.
func runLocal(ctx context.Context, d *lex.Dispatcher, w io.Writer) error {
	raw := os.Getenv("LOCAL_LEX_EVENT")
	if raw == "" {
		raw = sampleEvent
	}
	var ev lex.Event
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return fmt.Errorf("decode local event: %w", err)
	}
	resp, err := d.Dispatch(ctx, ev)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	d := newDispatcher(clients, cfg)

	// RUN_LOCAL=true dispatches a single event and prints the response.
	if cfg.RunLocal {
		if err := runLocal(context.Background(), d, os.Stdout); err != nil {
			log.Fatalf("local dispatch error: %v", err)
		}
		return
	}

	lambda.Start(d.Dispatch)
}
