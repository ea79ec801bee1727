package validation

// CreateBookRequest is the payload for POST /books
type CreateBookRequest struct {
	ID     string `json:"id" validate:"required,max=64"`
	Name   string `json:"name" validate:"required,notblank,max=256"`
	Author string `json:"author" validate:"required,notblank,max=256"`
}

// ReserveRequest is the payload for POST /reservations
type ReserveRequest struct {
	Title  string `json:"title" validate:"required,notblank"`
	Author string `json:"author" validate:"required,notblank"`
	Email  string `json:"email" validate:"required,email"`
}
