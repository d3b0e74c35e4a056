package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	FindAll(ctx context.Context) ([]Book, error)
	FindByID(ctx context.Context, id int64) (Book, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	Create(ctx context.Context, nb NewBook) (Book, error)
	Update(ctx context.Context, id int64, p Patch) (Book, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
