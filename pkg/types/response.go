// Package types holds the wire envelopes shared by every HTTP handler. The
// widget and the admin dashboard both unwrap {"data": ...} on success and
// {"error": {...}} on failure.
package types

// SuccessEnvelope wraps a handler payload for a 2xx response.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body. Code is machine-readable;
// Details carries field-level validation problems when present.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError for a non-2xx response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
