package shared

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance. validator.Validate is safe for
// concurrent use and caches struct metadata, so one instance serves all
// handlers.
var Validate = validator.New()

// maxRequestBodyBytes caps request bodies; build payloads carry metadata and
// screenshot URLs, not files.
const maxRequestBodyBytes = 1 << 20

// DecodeJSON decodes the request body into v, rejecting unknown fields and
// oversized bodies.
func DecodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}
