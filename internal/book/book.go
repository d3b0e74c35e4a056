package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no book has the requested id.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned when a write would break isbn uniqueness.
	ErrDuplicateISBN = errors.New("isbn already exists")
)

// Book represents one catalogued book.
type Book struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Authors       string    `json:"authors"`
	ISBN          string    `json:"isbn"`
	Editorial     *string   `json:"editorial"`
	Year          int       `json:"year"`
	EditionNumber *int      `json:"edition_number"`
	Language      *string   `json:"language"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewBook holds the columns of a book about to be inserted.
type NewBook struct {
	Title         string
	Authors       string
	ISBN          string
	Editorial     *string
	Year          int
	EditionNumber *int
	Language      *string
}

// Optional is a patch value for a nullable column. Set with a nil Value
// clears the column. Decoded from JSON, a present key sets Set and a JSON
// null leaves Value nil.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Patch lists the columns an update overwrites. Nil pointers and unset
// optionals leave the stored value alone.
type Patch struct {
	Title         *string
	Authors       *string
	ISBN          *string
	Year          *int
	Editorial     Optional[string]
	EditionNumber Optional[int]
	Language      Optional[string]
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Authors == nil && p.ISBN == nil && p.Year == nil &&
		!p.Editorial.Set && !p.EditionNumber.Set && !p.Language.Set
}

// Apply returns b with the patch written over it.
func (p Patch) Apply(b Book) Book {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Authors != nil {
		b.Authors = *p.Authors
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.Year != nil {
		b.Year = *p.Year
	}
	if p.Editorial.Set {
		b.Editorial = p.Editorial.Value
	}
	if p.EditionNumber.Set {
		b.EditionNumber = p.EditionNumber.Value
	}
	if p.Language.Set {
		b.Language = p.Language.Value
	}
	return b
}

// Numeral is an integer input that may be sent as a JSON number or as a
// JSON string. The raw text is kept so validation can inspect it.
type Numeral string

func (n *Numeral) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Numeral(strings.TrimSpace(s))
		return nil
	}
	*n = Numeral(data)
	return nil
}

// Int converts the numeral to a value that fits an INTEGER column.
func (n Numeral) Int() (int, bool) {
	v, err := strconv.ParseInt(string(n), 10, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}
