package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
)

// Dune returns a fresh create body for handler tests, with overrides applied.
// A nil override value removes the key.
func Dune(overrides map[string]any) map[string]any {
	body := map[string]any{
		"title":   "Dune",
		"authors": "Frank Herbert",
		"isbn":    "9780441013593",
		"year":    "1965",
	}
	for k, v := range overrides {
		if v == nil {
			delete(body, k)
			continue
		}
		body[k] = v
	}
	return body
}

// NewRequest creates a new HTTP request for testing. A string body is sent
// verbatim; anything else is JSON encoded.
func NewRequest(method, path string, body any) *http.Request {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		bodyBytes, _ := json.Marshal(b)
		reader = bytes.NewReader(bodyBytes)
	}

	r := httptest.NewRequest(method, path, reader)
	if reader != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Raw    []byte
	Body   any
}

// RecordHTTPResponse records the HTTP response. Body holds the decoded JSON
// when the response is JSON.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var body any
	if len(bodyBytes) > 0 && result.Header.Get("Content-Type") == "application/json" {
		_ = json.Unmarshal(bodyBytes, &body)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Raw:    bodyBytes,
		Body:   body,
	}
}

// Object returns the body as a JSON object, or nil.
func (rr RecordResponse) Object() map[string]any {
	m, _ := rr.Body.(map[string]any)
	return m
}

// Array returns the body as a JSON array, or nil.
func (rr RecordResponse) Array() []any {
	a, _ := rr.Body.([]any)
	return a
}

// ErrorFields returns the field names listed in an error envelope's details.
func (rr RecordResponse) ErrorFields() []string {
	envelope, _ := rr.Object()["error"].(map[string]any)
	details, _ := envelope["details"].([]any)

	var fields []string
	for _, d := range details {
		if m, ok := d.(map[string]any); ok {
			if f, ok := m["field"].(string); ok {
				fields = append(fields, f)
			}
		}
	}
	return fields
}

// ErrorCode returns error.code from an error envelope.
func (rr RecordResponse) ErrorCode() string {
	envelope, _ := rr.Object()["error"].(map[string]any)
	code, _ := envelope["code"].(string)
	return code
}
