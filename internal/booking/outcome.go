package booking

import "github.com/imrishuroy/lex-book-reservations/internal/reservations"

// Status is the result class of a validation.
type Status int

const (
	// StatusDeferred means not every input was supplied yet; nothing was checked.
	StatusDeferred Status = iota
	// StatusRejected means a business rule failed; see Outcome.Reason.
	StatusRejected
	// StatusCompleted means the book was reserved.
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusDeferred:
		return "deferred"
	case StatusRejected:
		return "rejected"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Field names the input an outcome refers to.
type Field string

const (
	FieldNone   Field = ""
	FieldTitle  Field = "title"
	FieldAuthor Field = "author"
	FieldEmail  Field = "email"
)

// Reason is a machine-readable rejection cause.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNotFound        Reason = "not_found"
	ReasonAlreadyReserved Reason = "already_reserved"
)

// User-facing messages.
const (
	MessageNotFound        = "Sorry, we don't have that book. Please type reserve to look for another book."
	MessageAlreadyReserved = "Sorry, that book is already reserved. Please type reserve to look for another book."
	messageReservedFormat  = "Thanks for booking, your reservation will expire on %s."
)

// ExpiryLayout formats expiration dates in messages (MM-DD-YYYY).
const ExpiryLayout = "01-02-2006"

// Outcome is the result of Validator.Validate.
type Outcome struct {
	Status        Status
	Reason        Reason
	ViolatedField Field
	Message       string
	// Reservation is set only when Status is StatusCompleted.
	Reservation *reservations.Reservation
}

func deferred() Outcome {
	return Outcome{Status: StatusDeferred}
}

func rejected(field Field, reason Reason, msg string) Outcome {
	return Outcome{
		Status:        StatusRejected,
		Reason:        reason,
		ViolatedField: field,
		Message:       msg,
	}
}
