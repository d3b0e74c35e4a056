package book

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-process Repository. Ids come from a counter and are
// never reused, even after delete.
type MemoryRepo struct {
	mu     sync.RWMutex
	books  map[int64]Book
	nextID int64
	now    func() time.Time
}

// NewMemoryRepo returns an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		books:  make(map[int64]Book),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// FindAll returns all books in ascending id order.
func (r *MemoryRepo) FindAll(_ context.Context) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepo) FindByID(_ context.Context, id int64) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepo) ExistsByISBN(_ context.Context, isbn string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, taken := r.ownerOf(isbn)
	return taken, nil
}

func (r *MemoryRepo) Create(_ context.Context, nb NewBook) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.ownerOf(nb.ISBN); taken {
		return Book{}, ErrDuplicateISBN
	}

	now := r.now()
	b := Book{
		ID:            r.nextID,
		Title:         nb.Title,
		Authors:       nb.Authors,
		ISBN:          nb.ISBN,
		Editorial:     nb.Editorial,
		Year:          nb.Year,
		EditionNumber: nb.EditionNumber,
		Language:      nb.Language,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.nextID++
	r.books[b.ID] = b
	return b, nil
}

func (r *MemoryRepo) Update(_ context.Context, id int64, p Patch) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	if p.ISBN != nil {
		if owner, taken := r.ownerOf(*p.ISBN); taken && owner != id {
			return Book{}, ErrDuplicateISBN
		}
	}

	b = p.Apply(b)
	b.UpdatedAt = r.now()
	r.books[id] = b
	return b, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *MemoryRepo) Ping(_ context.Context) error {
	return nil
}

// ownerOf returns the id of the book holding isbn. Callers hold the lock.
func (r *MemoryRepo) ownerOf(isbn string) (int64, bool) {
	for id, b := range r.books {
		if b.ISBN == isbn {
			return id, true
		}
	}
	return 0, false
}
