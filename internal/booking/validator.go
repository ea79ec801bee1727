package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/imrishuroy/lex-book-reservations/internal/books"
	"github.com/imrishuroy/lex-book-reservations/internal/reservations"
)

// BookFinder looks up a single book by exact title and author.
type BookFinder interface {
	FindByTitleAndAuthor(ctx context.Context, title, author string) (*books.Book, error)
}

// ReservationWriter commits a reservation together with the book's reserved flag.
// It must return reservations.ErrBookAlreadyReserved when the book was taken concurrently.
type ReservationWriter interface {
	CreateWithBookReservation(ctx context.Context, r reservations.Reservation) error
}

// EventPublisher announces committed reservations.
type EventPublisher interface {
	PublishReservation(ctx context.Context, ev reservations.Event) error
}

// DefaultReservationDays is how long a reservation lasts unless configured otherwise.
const DefaultReservationDays = 7

// Validator checks book availability and reserves the book once every input is present.
type Validator struct {
	books        BookFinder
	reservations ReservationWriter
	events       EventPublisher
	location     *time.Location
	days         int
	nowFunc      func() time.Time
	newEventID   func() string
}

// Option configures a Validator.
type Option func(*Validator)

// WithLocation sets the time zone reservation dates are computed and formatted in.
func WithLocation(loc *time.Location) Option {
	return func(v *Validator) {
		if loc != nil {
			v.location = loc
		}
	}
}

// WithReservationDays sets the reservation length in days.
func WithReservationDays(days int) Option {
	return func(v *Validator) {
		if days > 0 {
			v.days = days
		}
	}
}

// WithEventPublisher publishes an event after every completed reservation.
func WithEventPublisher(p EventPublisher) Option {
	return func(v *Validator) { v.events = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.nowFunc = now }
}

// NewValidator creates a Validator. Dates default to UTC and DefaultReservationDays.
func NewValidator(finder BookFinder, writer ReservationWriter, opts ...Option) *Validator {
	v := &Validator{
		books:        finder,
		reservations: writer,
		location:     time.UTC,
		days:         DefaultReservationDays,
		nowFunc:      time.Now,
		newEventID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate looks up the book by title and author and reserves it for email.
//
// Missing inputs defer validation to a later turn. A missing or already
// reserved book is rejected on the title field. Datastore failures are
// returned as errors; business-rule failures never are.
func (v *Validator) Validate(ctx context.Context, title, author, email string) (Outcome, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	email = strings.TrimSpace(email)
	if title == "" || author == "" || email == "" {
		return deferred(), nil
	}

	book, err := v.books.FindByTitleAndAuthor(ctx, title, author)
	if err != nil {
		return Outcome{}, fmt.Errorf("find book: %w", err)
	}
	if book == nil {
		return rejected(FieldTitle, ReasonNotFound, MessageNotFound), nil
	}
	if book.IsReserved() {
		return rejected(FieldTitle, ReasonAlreadyReserved, MessageAlreadyReserved), nil
	}

	now := v.nowFunc().In(v.location)
	r := reservations.Reservation{
		ID:         reservations.NewID(now, email),
		BookID:     book.ID,
		BookName:   book.Name,
		UserID:     email,
		CreatedAt:  now,
		Expiration: now.AddDate(0, 0, v.days),
	}

	log.Printf("[reserve] reserving book=%s name=%q for=%s", book.ID, book.Name, email)
	if err := v.reservations.CreateWithBookReservation(ctx, r); err != nil {
		if errors.Is(err, reservations.ErrBookAlreadyReserved) {
			log.Printf("[reserve] lost race for book=%s", book.ID)
			return rejected(FieldTitle, ReasonAlreadyReserved, MessageAlreadyReserved), nil
		}
		return Outcome{}, fmt.Errorf("reserve book %s: %w", book.ID, err)
	}

	v.publish(ctx, r)

	return Outcome{
		Status:      StatusCompleted,
		Message:     fmt.Sprintf(messageReservedFormat, r.Expiration.Format(ExpiryLayout)),
		Reservation: &r,
	}, nil
}

// publish is best-effort: the reservation is already committed.
func (v *Validator) publish(ctx context.Context, r reservations.Reservation) {
	if v.events == nil {
		return
	}
	ev := reservations.Event{
		EventID:       v.newEventID(),
		ReservationID: r.ID,
		BookID:        r.BookID,
		BookName:      r.BookName,
		UserID:        r.UserID,
		CreatedAt:     r.CreatedAt,
		Expiration:    r.Expiration,
	}
	if err := v.events.PublishReservation(ctx, ev); err != nil {
		log.Printf("[reserve] failed to publish reservation=%s: %v", r.ID, err)
	}
}
