package books

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/imrishuroy/lex-book-reservations/internal/aws"
)

// ErrBookExists is returned by Put when a book with the same id is already stored.
var ErrBookExists = errors.New("book already exists")

// titleAuthorFilter matches books by exact name and author. name is a reserved word.
const titleAuthorFilter = "(#name = :n) AND (author = :a)"

// Store encapsulates operations on the books table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewStore creates a new books Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
	}
}

// TableName returns the table the store reads and writes.
func (s *Store) TableName() string { return s.tableName }

// FindByTitleAndAuthor scans for books whose name and author match exactly.
// When several records match, the one with the lowest id wins.
// Returns (nil, nil) if nothing matches.
func (s *Store) FindByTitleAndAuthor(ctx context.Context, title, author string) (*Book, error) {
	matches, err := s.scan(ctx, &dyn.ScanInput{
		TableName:                &s.tableName,
		FilterExpression:         awsString(titleAuthorFilter),
		ExpressionAttributeNames: map[string]string{"#name": "name"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":n": &types.AttributeValueMemberS{Value: title},
			":a": &types.AttributeValueMemberS{Value: author},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sortByID(matches)
	return &matches[0], nil
}

// List returns every book in the table ordered by id.
func (s *Store) List(ctx context.Context) ([]Book, error) {
	all, err := s.scan(ctx, &dyn.ScanInput{TableName: &s.tableName})
	if err != nil {
		return nil, err
	}
	sortByID(all)
	return all, nil
}

// Get fetches a book by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, id string) (*Book, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       Key(id),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var b Book
	if err := attributevalue.UnmarshalMap(out.Item, &b); err != nil {
		return nil, fmt.Errorf("unmarshal book: %w", err)
	}
	return &b, nil
}

// Put stores a new book. An empty reserved flag is stored as "false".
// Returns ErrBookExists if the id is taken.
func (s *Store) Put(ctx context.Context, b Book) error {
	if b.Reserved == "" {
		b.Reserved = ReservedFalse
	}
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(id)"),
	})
	if err != nil {
		var cf *types.ConditionalCheckFailedException
		if errors.As(err, &cf) {
			return ErrBookExists
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func (s *Store) scan(ctx context.Context, input *dyn.ScanInput) ([]Book, error) {
	var out []Book
	p := dyn.NewScanPaginator(s.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.tableName, err)
		}
		var batch []Book
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal books: %w", err)
		}
		out = append(out, batch...)
	}
	return out, nil
}

// Key builds the primary key of a book item.
func Key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// sortByID orders books by id. Integer ids come first in numeric order,
// then every other id in lexical order.
func sortByID(bs []Book) {
	sort.SliceStable(bs, func(i, j int) bool {
		return lessID(bs[i].ID, bs[j].ID)
	})
}

func lessID(a, b string) bool {
	ai, errA := strconv.ParseInt(a, 10, 64)
	bi, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		if ai != bi {
			return ai < bi
		}
		// "042" and "42"
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

func awsString(s string) *string { return &s }
