package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the gateway, carrying the server's
// structured {error} message when one was sent.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, http.StatusText(e.Status))
}

// ErrorMessage extracts a display message from err: the server's structured
// message when present, the generic status text for bare API errors, and
// fallback for everything else.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return http.StatusText(apiErr.Status)
	}
	if err != nil && fallback == "" {
		return err.Error()
	}
	return fallback
}

// IsCanceled reports whether err is a context cancellation rather than a
// real failure. Callers use it to stay quiet about requests they abandoned.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
