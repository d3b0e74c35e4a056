package main

import (
	"context"
	"testing"

	"bookcrud/internal/book"
	"bookcrud/internal/validation"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleBooks_AreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, in := range sampleBooks() {
		assert.Empty(t, validation.Struct(in), in.Title)
		assert.False(t, seen[in.ISBN], "duplicate isbn %s", in.ISBN)
		seen[in.ISBN] = true
	}
}

func TestSeed_SkipsExisting(t *testing.T) {
	repo := book.NewMemoryRepo()
	service := book.NewService(repo)
	ctx := context.Background()

	created, skipped, err := seed(ctx, service, sampleBooks(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, len(sampleBooks()), created)
	assert.Zero(t, skipped)

	created, skipped, err = seed(ctx, service, sampleBooks(), zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, len(sampleBooks()), skipped)
}

func TestSeed_StopsOnInvalidInput(t *testing.T) {
	service := book.NewService(book.NewMemoryRepo())

	_, _, err := seed(context.Background(), service, []book.CreateInput{{Title: "No year"}}, zerolog.Nop())

	assert.Error(t, err)
}
