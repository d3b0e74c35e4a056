package book

import (
	"context"
	"errors"
	"fmt"

	"bookcrud/internal/validation"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every book in store order. The result is never nil.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	books, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Get returns the book with the given id or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.FindByID(ctx, id)
}

// Create validates in and persists it. Rule failures come back as
// validation.Errors and nothing is written.
func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	errs := validation.Struct(in)
	if !errs.Has("isbn") {
		taken, err := s.repo.ExistsByISBN(ctx, in.ISBN)
		if err != nil {
			return Book{}, fmt.Errorf("check isbn: %w", err)
		}
		if taken {
			errs = errs.Add("isbn", isbnTakenMessage)
		}
	}
	if len(errs) > 0 {
		return Book{}, errs
	}

	nb, errs := in.newBook()
	if len(errs) > 0 {
		return Book{}, errs
	}

	b, err := s.repo.Create(ctx, nb)
	if errors.Is(err, ErrDuplicateISBN) {
		return Book{}, validation.Errors{{Field: "isbn", Message: isbnTakenMessage}}
	}
	if err != nil {
		return Book{}, fmt.Errorf("create book: %w", err)
	}
	return b, nil
}

// Update overwrites the provided fields of book id. It returns ErrNotFound
// when the book does not exist, even if the input is also invalid.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Book, error) {
	p, errs := in.patch()
	if len(errs) > 0 {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return Book{}, err
			}
			return Book{}, fmt.Errorf("find book %d: %w", id, err)
		}
		return Book{}, errs
	}

	if p.Empty() {
		return s.repo.FindByID(ctx, id)
	}

	b, err := s.repo.Update(ctx, id, p)
	switch {
	case errors.Is(err, ErrDuplicateISBN):
		return Book{}, validation.Errors{{Field: "isbn", Message: isbnTakenMessage}}
	case errors.Is(err, ErrNotFound):
		return Book{}, err
	case err != nil:
		return Book{}, fmt.Errorf("update book %d: %w", id, err)
	}
	return b, nil
}

// Delete removes book id permanently. It returns ErrNotFound when the book
// does not exist.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return err
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
