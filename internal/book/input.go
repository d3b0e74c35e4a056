package book

import (
	"strings"

	"bookcrud/internal/validation"
)

const isbnTakenMessage = "isbn has already been taken"

// CreateInput is the request body accepted by create. Only these fields can
// be set by a client. Values are stored as sent.
type CreateInput struct {
	Title         string  `json:"title" validate:"required,notblank"`
	Authors       string  `json:"authors" validate:"required,notblank"`
	ISBN          string  `json:"isbn" validate:"required,notblank"`
	Editorial     *string `json:"editorial"`
	Year          Numeral `json:"year" validate:"required,number,digits=4"`
	EditionNumber Numeral `json:"edition_number" validate:"omitempty,number"`
	Language      *string `json:"language"`
}

// newBook converts an input that already passed validation.
func (in CreateInput) newBook() (NewBook, validation.Errors) {
	var errs validation.Errors
	nb := NewBook{
		Title:     in.Title,
		Authors:   in.Authors,
		ISBN:      in.ISBN,
		Editorial: in.Editorial,
		Language:  in.Language,
	}

	if v, ok := in.Year.Int(); ok {
		nb.Year = v
	} else {
		errs = errs.Add("year", outOfRange("year"))
	}
	if in.EditionNumber != "" {
		if v, ok := in.EditionNumber.Int(); ok {
			nb.EditionNumber = &v
		} else {
			errs = errs.Add("edition_number", outOfRange("edition_number"))
		}
	}
	return nb, errs
}

// UpdateInput is the request body accepted by update. Absent fields are left
// unchanged. A null optional field is cleared; a null required field is
// ignored.
type UpdateInput struct {
	Title         *string           `json:"title"`
	Authors       *string           `json:"authors"`
	ISBN          *string           `json:"isbn"`
	Editorial     Optional[string]  `json:"editorial"`
	Year          *Numeral          `json:"year"`
	EditionNumber Optional[Numeral] `json:"edition_number"`
	Language      Optional[string]  `json:"language"`
}

func (in UpdateInput) patch() (Patch, validation.Errors) {
	var (
		p    Patch
		errs validation.Errors
	)

	p.Title, errs = requiredString(errs, "title", in.Title)
	p.Authors, errs = requiredString(errs, "authors", in.Authors)
	p.ISBN, errs = requiredString(errs, "isbn", in.ISBN)

	if in.Year != nil {
		if v, ok := in.Year.Int(); ok {
			p.Year = &v
		} else {
			errs = errs.Add("year", "year must be an integer")
		}
	}

	if in.EditionNumber.Set {
		p.EditionNumber.Set = true
		if n := in.EditionNumber.Value; n != nil {
			if v, ok := n.Int(); ok {
				p.EditionNumber.Value = &v
			} else {
				errs = errs.Add("edition_number", "edition_number must be an integer")
			}
		}
	}

	p.Editorial = in.Editorial
	p.Language = in.Language
	return p, errs
}

func requiredString(errs validation.Errors, field string, v *string) (*string, validation.Errors) {
	if v == nil {
		return nil, errs
	}
	if strings.TrimSpace(*v) == "" {
		return nil, errs.Add(field, field+" is required")
	}
	return v, errs
}

func outOfRange(field string) string {
	return field + " is out of range"
}
