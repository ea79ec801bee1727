package intents

import (
	"context"
	"fmt"
	"log"

	"github.com/imrishuroy/lex-book-reservations/internal/booking"
	"github.com/imrishuroy/lex-book-reservations/internal/lex"
)

// ReserveBook intent and slot names as defined on the bot.
const (
	IntentReserveBook = "ReserveBook"
	SlotBookName      = "BookName"
	SlotAuthorName    = "AuthorName"
	SlotEmail         = "email"
)

const (
	messageTryAgain  = "Sorry, we couldn't complete your reservation right now. Please try again."
	messageFulfilled = "Thanks, your reservation for %s has been placed"
)

// slotFor maps validator fields onto bot slots.
var slotFor = map[booking.Field]string{
	booking.FieldTitle:  SlotBookName,
	booking.FieldAuthor: SlotAuthorName,
	booking.FieldEmail:  SlotEmail,
}

// BookValidator is satisfied by *booking.Validator.
type BookValidator interface {
	Validate(ctx context.Context, title, author, email string) (booking.Outcome, error)
}

// MetricsRecorder is satisfied by *aws.Metrics.
type MetricsRecorder interface {
	Count(ctx context.Context, name string, dims map[string]string) error
}

// ReserveBook handles the ReserveBook intent.
type ReserveBook struct {
	validator BookValidator
	metrics   MetricsRecorder
}

// NewReserveBook returns the handler. metrics may be nil.
func NewReserveBook(v BookValidator, m MetricsRecorder) *ReserveBook {
	return &ReserveBook{validator: v, metrics: m}
}

// Handle validates during DialogCodeHook and confirms during fulfillment.
func (h *ReserveBook) Handle(ctx context.Context, ev lex.Event) (lex.Response, error) {
	slots := ev.CurrentIntent.Slots
	title := slots.Value(SlotBookName)

	if ev.InvocationSource != lex.InvocationDialogCodeHook {
		h.count(ctx, "fulfilled")
		return lex.Close(ev.SessionAttributes, lex.FulfillmentStateFulfilled,
			lex.PlainText(fmt.Sprintf(messageFulfilled, title))), nil
	}

	outcome, err := h.validator.Validate(ctx, title, slots.Value(SlotAuthorName), slots.Value(SlotEmail))
	if err != nil {
		log.Printf("[reserve] validation failed user=%s: %v", ev.UserID, err)
		h.count(ctx, "error")
		return lex.Close(ev.SessionAttributes, lex.FulfillmentStateFailed, lex.PlainText(messageTryAgain)), nil
	}
	h.count(ctx, outcome.Status.String())

	switch outcome.Status {
	case booking.StatusRejected:
		slot, ok := slotFor[outcome.ViolatedField]
		if !ok {
			slot = SlotBookName
		}
		next := slots.Clone()
		if next == nil {
			next = lex.Slots{}
		}
		next[slot] = nil
		return lex.ElicitSlot(ev.SessionAttributes, ev.CurrentIntent.Name, next, slot, lex.PlainText(outcome.Message)), nil
	case booking.StatusCompleted:
		return lex.Close(ev.SessionAttributes, lex.FulfillmentStateFulfilled, lex.PlainText(outcome.Message)), nil
	default:
		session := ev.SessionAttributes
		if session == nil {
			session = map[string]string{}
		}
		return lex.Delegate(session, slots), nil
	}
}

func (h *ReserveBook) count(ctx context.Context, outcome string) {
	if h.metrics == nil {
		return
	}
	err := h.metrics.Count(ctx, "ValidationOutcome", map[string]string{
		"Intent":  IntentReserveBook,
		"Outcome": outcome,
	})
	if err != nil {
		log.Printf("[reserve] metrics: %v", err)
	}
}
