package book

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"bookcrud/internal/httpx"
	"bookcrud/internal/validation"

	"github.com/rs/zerolog"
)

const deletedMessage = "Deleted Successfully"

// bodyError is a request body that could not be read as one JSON object.
type bodyError struct {
	status  int
	code    string
	message string
}

func (e *bodyError) Error() string { return e.message }

var (
	errBodyTooLarge = &bodyError{http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large"}
	errNotObject    = &bodyError{http.StatusBadRequest, "BAD_REQUEST", "Request body must be a JSON object"}
	errTrailingData = &bodyError{http.StatusBadRequest, "BAD_REQUEST", "Request body must contain a single JSON object"}
)

// HTTPHandler serves the book endpoints.
type HTTPHandler struct {
	service *Service
	log     zerolog.Logger
}

// NewHTTPHandler creates a book HTTP handler.
func NewHTTPHandler(service *Service, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// Register mounts the book routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("POST /books", h.Create)
	mux.HandleFunc("GET /books/{id}", h.Get)
	mux.HandleFunc("PUT /books/{id}", h.Update)
	mux.HandleFunc("PATCH /books/{id}", h.Update)
	mux.HandleFunc("DELETE /books/{id}", h.Delete)
}

// List handles GET /books
// @Summary List books
// @Tags books
// @Produce json
// @Success 200 {array} Book
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// Get handles GET /books/{id}. An unknown id answers 200 with a null body.
// @Summary Get book by id
// @Tags books
// @Produce json
// @Param id path int true "Book id"
// @Success 200 {object} Book
// @Router /books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSON(w, http.StatusOK, nil)
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSON(w, http.StatusOK, nil)
			return
		}
		h.internalError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Create handles POST /books
// @Summary Create book
// @Tags books
// @Accept json
// @Produce json
// @Success 201 {object} Book
// @Failure 422 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

// Update handles PUT and PATCH /books/{id}
// @Summary Update book
// @Tags books
// @Accept json
// @Produce json
// @Param id path int true "Book id"
// @Success 200 {object} Book
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return
	}

	var in UpdateInput
	if err := decodeBody(r, &in); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			if _, gerr := h.service.Get(r.Context(), id); gerr != nil {
				err = gerr
			}
		}
		h.writeError(w, r, err)
		return
	}

	b, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Delete handles DELETE /books/{id}
// @Summary Delete book
// @Tags books
// @Produce plain
// @Param id path int true "Book id"
// @Success 200 {string} string "Deleted Successfully"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.Text(w, http.StatusOK, deletedMessage)
}

// decodeBody reads a single JSON object into dst. An empty body leaves dst
// untouched. A field of the wrong JSON type is reported as validation.Errors.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return decodeError(err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return errTrailingData
	}
	return nil
}

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errBodyTooLarge
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return validation.Errors{{Field: typeErr.Field, Message: typeErr.Field + " has an invalid type"}}
	}
	return errNotObject
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verrs   validation.Errors
		bodyErr *bodyError
	)
	switch {
	case errors.As(err, &bodyErr):
		httpx.JSONError(w, r, bodyErr.status, bodyErr.code, bodyErr.message, nil)
	case errors.As(err, &verrs):
		details := make([]httpx.ErrorDetail, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, httpx.ErrorDetail{Field: fe.Field, Message: fe.Message})
		}
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "The given data was invalid", details)
	case errors.Is(err, ErrNotFound):
		notFound(w, r)
	default:
		h.internalError(w, r, err)
	}
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error().Err(err).
		Str("request_id", httpx.RequestIDFrom(r)).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
