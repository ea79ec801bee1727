package reservations

import "time"

// idLayout is the timestamp part of a reservation id.
const idLayout = "01-02-2006-15:04:05"

// Reservation represents the item stored in the reservation DynamoDB table.
type Reservation struct {
	ID         string    `dynamodbav:"id" json:"id"` // PK, see NewID
	BookID     string    `dynamodbav:"book_id" json:"book_id"`
	BookName   string    `dynamodbav:"book_name" json:"book_name"`
	UserID     string    `dynamodbav:"user_id" json:"user_id"` // requester email
	CreatedAt  time.Time `dynamodbav:"created_at" json:"created_at"`
	Expiration time.Time `dynamodbav:"expiration" json:"expiration"` // advisory only, never enforced
}

// NewID composes a reservation id from the creation time and the requester.
// Two reservations by the same requester within one second collide; the
// conditional put in CreateWithBookReservation rejects the second one.
func NewID(createdAt time.Time, userID string) string {
	return createdAt.Format(idLayout) + " " + userID
}

// Event is the message published to SQS after a reservation is committed.
type Event struct {
	EventID       string    `json:"event_id"`
	ReservationID string    `json:"reservation_id"`
	BookID        string    `json:"book_id"`
	BookName      string    `json:"book_name"`
	UserID        string    `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	Expiration    time.Time `json:"expiration"`
}
