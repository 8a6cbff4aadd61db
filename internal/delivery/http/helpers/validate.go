package helpers

import (
	"encoding/json"
	"net/http"
)

// maxBodyBytes bounds request bodies; the largest legitimate body is a password.
const maxBodyBytes = 16 << 10

// Validator is implemented by request DTOs that support validation.
// Validate returns a slice of error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the JSON request body into dest and, if dest
// implements Validator, runs Validate(). Unknown fields are ignored. On decode or
// validation failure it writes failStatus with failMessage and returns false;
// callers should return immediately in that case.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any, failStatus int, failMessage string) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, failStatus, failMessage)
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONError(w, failStatus, failMessage)
			return false
		}
	}
	return true
}
