package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// decodeJSON reads a JSON body of at most maxBytes into v. An empty body
// leaves v untouched when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v any, allowEmpty bool) error {
	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &tooLarge):
		return fmt.Errorf("limit %d bytes: %w", tooLarge.Limit, ErrBodyTooLarge)
	case errors.Is(err, io.EOF) && allowEmpty:
		return nil
	default:
		return fmt.Errorf("decode body: %v: %w", err, ErrBadRequest)
	}
}

// queryInt parses an integer query parameter. ok is false when the
// parameter is absent.
func queryInt(r *http.Request, name string) (n int, ok bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("query %s=%q: %w", name, raw, ErrBadRequest)
	}
	return n, true, nil
}
