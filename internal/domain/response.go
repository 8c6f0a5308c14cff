package domain

// ErrorResponse is the envelope for every failed request on the local surface.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DeleteResponse acknowledges a successful delete instead of relaying the upstream body.
type DeleteResponse struct {
	Success bool `json:"success"`
}
