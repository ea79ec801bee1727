package books

// Values of the text-encoded reserved flag.
const (
	ReservedTrue  = "true"
	ReservedFalse = "false"
)

// Book represents the item stored in the books DynamoDB table.
type Book struct {
	ID         string `dynamodbav:"id" json:"id"` // PK
	Name       string `dynamodbav:"name" json:"name"`
	Author     string `dynamodbav:"author" json:"author"`
	Reserved   string `dynamodbav:"reserved" json:"reserved"`
	ReservedBy string `dynamodbav:"reserved_by,omitempty" json:"reserved_by,omitempty"`
}

// IsReserved reports whether the record has already been reserved.
func (b Book) IsReserved() bool {
	return b.Reserved == ReservedTrue
}
