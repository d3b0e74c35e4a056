package book

import (
	"context"
	"errors"
	"testing"

	"bookcrud/internal/validation"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func duneInput() CreateInput {
	return CreateInput{
		Title:   "Dune",
		Authors: "Frank Herbert",
		ISBN:    "9780441013593",
		Year:    "1965",
	}
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		in := duneInput()
		in.Title = "  Dune  "
		in.Editorial = strPtr("")
		in.EditionNumber = "2"
		in.Language = strPtr("en")

		want := NewBook{
			Title:         "  Dune  ",
			Authors:       "Frank Herbert",
			ISBN:          "9780441013593",
			Editorial:     strPtr(""),
			Year:          1965,
			EditionNumber: intPtr(2),
			Language:      strPtr("en"),
		}
		mockRepo.EXPECT().ExistsByISBN(gomock.Any(), "9780441013593").Return(false, nil)
		mockRepo.EXPECT().Create(gomock.Any(), want).Return(Book{ID: 1, Title: "  Dune  "}, nil)

		b, err := service.Create(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, int64(1), b.ID)
	})

	t.Run("whitespace title is required", func(t *testing.T) {
		in := duneInput()
		in.Title = "   "
		mockRepo.EXPECT().ExistsByISBN(gomock.Any(), "9780441013593").Return(false, nil)

		_, err := service.Create(ctx, in)

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, validation.Errors{{Field: "title", Message: "title is required"}}, verrs)
	})

	t.Run("isbn taken", func(t *testing.T) {
		mockRepo.EXPECT().ExistsByISBN(gomock.Any(), "9780441013593").Return(true, nil)

		_, err := service.Create(ctx, duneInput())

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, validation.Errors{{Field: "isbn", Message: "isbn has already been taken"}}, verrs)
	})

	t.Run("isbn taken reported with other failures", func(t *testing.T) {
		in := duneInput()
		in.Year = "123"
		mockRepo.EXPECT().ExistsByISBN(gomock.Any(), "9780441013593").Return(true, nil)

		_, err := service.Create(ctx, in)

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has("year"))
		assert.True(t, verrs.Has("isbn"))
	})

	t.Run("missing isbn skips lookup", func(t *testing.T) {
		in := duneInput()
		in.ISBN = ""

		_, err := service.Create(ctx, in)

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "isbn is required", verrs[0].Message)
	})

	t.Run("store reports duplicate", func(t *testing.T) {
		mockRepo.EXPECT().ExistsByISBN(gomock.Any(), "9780441013593").Return(false, nil)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(Book{}, ErrDuplicateISBN)

		_, err := service.Create(ctx, duneInput())

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has("isbn"))
	})

	t.Run("lookup failure", func(t *testing.T) {
		mockRepo.EXPECT().ExistsByISBN(gomock.Any(), gomock.Any()).Return(false, context.DeadlineExceeded)

		_, err := service.Create(ctx, duneInput())

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("edition number out of range", func(t *testing.T) {
		in := duneInput()
		in.EditionNumber = "99999999999"
		mockRepo.EXPECT().ExistsByISBN(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := service.Create(ctx, in)

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "edition_number is out of range", verrs[0].Message)
	})
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("partial patch", func(t *testing.T) {
		in := UpdateInput{
			Title:         strPtr(" Dune "),
			Language:      Optional[string]{Set: true, Value: strPtr("")},
			Editorial:     Optional[string]{Set: true},
			EditionNumber: Optional[Numeral]{Set: true},
		}
		want := Patch{
			Title:         strPtr(" Dune "),
			Language:      Optional[string]{Set: true, Value: strPtr("")},
			Editorial:     Optional[string]{Set: true},
			EditionNumber: Optional[int]{Set: true},
		}
		mockRepo.EXPECT().Update(gomock.Any(), int64(3), want).Return(Book{ID: 3}, nil)

		b, err := service.Update(ctx, 3, in)

		require.NoError(t, err)
		assert.Equal(t, int64(3), b.ID)
	})

	t.Run("empty patch reads current row", func(t *testing.T) {
		mockRepo.EXPECT().FindByID(gomock.Any(), int64(3)).Return(Book{ID: 3}, nil)

		b, err := service.Update(ctx, 3, UpdateInput{})

		require.NoError(t, err)
		assert.Equal(t, int64(3), b.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), int64(9), gomock.Any()).Return(Book{}, ErrNotFound)

		_, err := service.Update(ctx, 9, UpdateInput{Title: strPtr("x")})

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("blank required field", func(t *testing.T) {
		mockRepo.EXPECT().FindByID(gomock.Any(), int64(3)).Return(Book{ID: 3}, nil)

		_, err := service.Update(ctx, 3, UpdateInput{Authors: strPtr(" ")})

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "authors is required", verrs[0].Message)
	})

	t.Run("invalid input on missing book is not found", func(t *testing.T) {
		year := Numeral("abc")
		mockRepo.EXPECT().FindByID(gomock.Any(), int64(9)).Return(Book{}, ErrNotFound)

		_, err := service.Update(ctx, 9, UpdateInput{Year: &year})

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("lookup failure with invalid input", func(t *testing.T) {
		mockRepo.EXPECT().FindByID(gomock.Any(), int64(3)).Return(Book{}, errors.New("conn reset"))

		_, err := service.Update(ctx, 3, UpdateInput{Title: strPtr("")})

		assert.EqualError(t, err, "find book 3: conn reset")
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), int64(3), gomock.Any()).Return(Book{}, errors.New("conn reset"))

		_, err := service.Update(ctx, 3, UpdateInput{Title: strPtr("x")})

		assert.EqualError(t, err, "update book 3: conn reset")
	})
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	mockRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)
	assert.NoError(t, service.Delete(ctx, 1))

	mockRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(ErrNotFound)
	assert.Equal(t, ErrNotFound, service.Delete(ctx, 1))

	mockRepo.EXPECT().Delete(gomock.Any(), int64(2)).Return(errors.New("conn reset"))
	assert.EqualError(t, service.Delete(ctx, 2), "delete book 2: conn reset")
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	mockRepo.EXPECT().FindAll(gomock.Any()).Return(nil, nil)

	books, err := service.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}
