package apiclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx backend response. Message carries the
// server-supplied message field when one was present in the body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// errorFromResponse builds an APIError, preferring a "message" or
// "error" field from the response body when it decodes.
func errorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	if payload.Message != "" {
		apiErr.Message = payload.Message
	} else if payload.Error != "" {
		apiErr.Message = payload.Error
	}
	return apiErr
}
