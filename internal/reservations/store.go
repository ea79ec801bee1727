package reservations

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/imrishuroy/lex-book-reservations/internal/aws"
	"github.com/imrishuroy/lex-book-reservations/internal/books"
)

var (
	// ErrBookAlreadyReserved means the book was missing or reserved when the transaction ran.
	ErrBookAlreadyReserved = errors.New("book already reserved")
	// ErrDuplicateReservation means a reservation with the same id already exists.
	ErrDuplicateReservation = errors.New("reservation id already exists")
)

// Expressions shared with the test mocks.
const (
	reserveUpdate    = "SET reserved = :r, reserved_by = :p"
	reserveCondition = "attribute_exists(id) AND (attribute_not_exists(reserved) OR reserved <> :r)"
	createCondition  = "attribute_not_exists(id)"
	userFilter       = "user_id = :u"
)

// Store encapsulates operations on the reservation table.
type Store struct {
	client     aws.DynamoDBAPI
	tableName  string
	booksTable string
}

// NewStore creates a reservations Store. booksTable is the table updated
// together with every new reservation.
func NewStore(client aws.DynamoDBAPI, tableName, booksTable string) *Store {
	return &Store{
		client:     client,
		tableName:  tableName,
		booksTable: booksTable,
	}
}

// CreateWithBookReservation atomically:
//   - marks the book r.BookID reserved by r.UserID, only if it is not already reserved
//   - inserts r into the reservation table, only if r.ID is unused
//
// Returns ErrBookAlreadyReserved or ErrDuplicateReservation when the matching condition fails.
func (s *Store) CreateWithBookReservation(ctx context.Context, r Reservation) error {
	item, err := attributevalue.MarshalMap(r)
	if err != nil {
		return fmt.Errorf("marshal reservation: %w", err)
	}

	transactItems := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:        &s.booksTable,
				Key:              books.Key(r.BookID),
				UpdateExpression: awsString(reserveUpdate),
				// compare-and-swap on the reserved flag
				ConditionExpression: awsString(reserveCondition),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":r": &types.AttributeValueMemberS{Value: books.ReservedTrue},
					":p": &types.AttributeValueMemberS{Value: r.UserID},
				},
			},
		},
		{
			Put: &types.Put{
				TableName:           &s.tableName,
				Item:                item,
				ConditionExpression: awsString(createCondition),
			},
		},
	}

	_, err = s.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: transactItems,
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return cancellationError(tce, err)
		}
		return fmt.Errorf("transact write: %w", err)
	}
	return nil
}

// cancellationError maps the per-item cancellation reasons onto the store's sentinels.
// Reasons are positional: 0 is the book update, 1 is the reservation put.
func cancellationError(tce *types.TransactionCanceledException, err error) error {
	for i, reason := range tce.CancellationReasons {
		if reason.Code == nil || *reason.Code != "ConditionalCheckFailed" {
			continue
		}
		switch i {
		case 0:
			return ErrBookAlreadyReserved
		case 1:
			return ErrDuplicateReservation
		}
	}
	return fmt.Errorf("transaction canceled: %w", err)
}

// Get fetches a reservation by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, id string) (*Reservation, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var r Reservation
	if err := attributevalue.UnmarshalMap(out.Item, &r); err != nil {
		return nil, fmt.Errorf("unmarshal reservation: %w", err)
	}
	return &r, nil
}

// ListByUser returns the reservations made by userID, oldest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]Reservation, error) {
	input := &dyn.ScanInput{
		TableName:        &s.tableName,
		FilterExpression: awsString(userFilter),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
		},
	}
	var out []Reservation
	p := dyn.NewScanPaginator(s.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.tableName, err)
		}
		var batch []Reservation
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal reservations: %w", err)
		}
		out = append(out, batch...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func awsString(s string) *string { return &s }
