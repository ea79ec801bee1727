package handlers

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/imrishuroy/lex-book-reservations/internal/booking"
	"github.com/imrishuroy/lex-book-reservations/internal/books"
	"github.com/imrishuroy/lex-book-reservations/internal/idempotency"
	"github.com/imrishuroy/lex-book-reservations/internal/reservations"
)

// BookStore is satisfied by *books.Store.
type BookStore interface {
	Get(ctx context.Context, id string) (*books.Book, error)
	List(ctx context.Context) ([]books.Book, error)
	Put(ctx context.Context, b books.Book) error
	FindByTitleAndAuthor(ctx context.Context, title, author string) (*books.Book, error)
}

// ReservationReader is satisfied by *reservations.Store.
type ReservationReader interface {
	Get(ctx context.Context, id string) (*reservations.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]reservations.Reservation, error)
}

// Reserver is satisfied by *booking.Validator.
type Reserver interface {
	Validate(ctx context.Context, title, author, email string) (booking.Outcome, error)
}

// IdempotencyStore is satisfied by *idempotency.Store.
type IdempotencyStore interface {
	CreateIfNotExists(ctx context.Context, key, reservationID string) (bool, error)
	Get(ctx context.Context, key string) (*idempotency.IdempotencyRecord, error)
	MarkDone(ctx context.Context, key, reservationID, responseBody string, responseStatus int) error
	MarkFailed(ctx context.Context, key, note string) error
	Release(ctx context.Context, key string) (bool, error)
}

// HandlerConfig groups dependencies for the API handlers.
type HandlerConfig struct {
	Books        BookStore
	Reservations ReservationReader
	Reserver     Reserver
	Idempotency  IdempotencyStore

	// RateLimit and RateBurst bound POST requests per client IP. Zero disables limiting.
	RateLimit rate.Limit
	RateBurst int
}
