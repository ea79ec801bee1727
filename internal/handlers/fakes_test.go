package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/imrishuroy/lex-book-reservations/internal/booking"
	"github.com/imrishuroy/lex-book-reservations/internal/books"
	"github.com/imrishuroy/lex-book-reservations/internal/idempotency"
	"github.com/imrishuroy/lex-book-reservations/internal/reservations"
)

type fakeBooks struct {
	items map[string]books.Book
	err   error
}

func (f *fakeBooks) Get(ctx context.Context, id string) (*books.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBooks) List(ctx context.Context) ([]books.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []books.Book
	for _, b := range f.items {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBooks) Put(ctx context.Context, b books.Book) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.items[b.ID]; ok {
		return books.ErrBookExists
	}
	f.items[b.ID] = b
	return nil
}

func (f *fakeBooks) FindByTitleAndAuthor(ctx context.Context, title, author string) (*books.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.items {
		if b.Name == title && b.Author == author {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

type fakeReservations struct {
	items map[string]reservations.Reservation
}

func (f *fakeReservations) Get(ctx context.Context, id string) (*reservations.Reservation, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeReservations) ListByUser(ctx context.Context, userID string) ([]reservations.Reservation, error) {
	var out []reservations.Reservation
	for _, r := range f.items {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeReserver struct {
	outcomes []booking.Outcome
	errs     []error
	calls    int
}

func (f *fakeReserver) Validate(ctx context.Context, title, author, email string) (booking.Outcome, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return booking.Outcome{}, err
	}
	if i < len(f.outcomes) {
		return f.outcomes[i], nil
	}
	return f.outcomes[len(f.outcomes)-1], nil
}

type fakeIdempotency struct {
	mu            sync.Mutex
	records       map[string]*idempotency.IdempotencyRecord
	markDoneFails int
	markDoneCalls int
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{records: map[string]*idempotency.IdempotencyRecord{}}
}

func (f *fakeIdempotency) CreateIfNotExists(ctx context.Context, key, reservationID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[key]; ok {
		return false, nil
	}
	f.records[key] = &idempotency.IdempotencyRecord{IdempotencyKey: key, Status: idempotency.StatusInProgress, ReservationID: reservationID}
	return true, nil
}

func (f *fakeIdempotency) Get(ctx context.Context, key string) (*idempotency.IdempotencyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[key]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeIdempotency) MarkDone(ctx context.Context, key, reservationID, responseBody string, responseStatus int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markDoneCalls++
	if f.markDoneCalls <= f.markDoneFails {
		return errors.New("throttled")
	}
	rec := f.records[key]
	rec.Status = idempotency.StatusDone
	rec.ReservationID = reservationID
	rec.ResponseBody = responseBody
	rec.ResponseStatus = responseStatus
	return nil
}

func (f *fakeIdempotency) MarkFailed(ctx context.Context, key, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.records[key]
	rec.Status = idempotency.StatusFailed
	rec.Note = note
	return nil
}

func (f *fakeIdempotency) Release(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.records[key]
	if rec == nil || rec.Status != idempotency.StatusFailed {
		return false, nil
	}
	rec.Status = idempotency.StatusInProgress
	return true, nil
}
