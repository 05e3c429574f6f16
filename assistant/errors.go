package assistant

import (
	"errors"

	"github.com/openai/openai-go"
)

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("openai api key not configured")

// UpstreamError carries the HTTP status and user-facing message for a
// failed completion request. Handlers surface Response to the user and
// Status on the wire; the conversation itself never terminates on one.
type UpstreamError struct {
	Code     string
	Status   int
	Response string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// classifyError maps a completion failure onto the error taxonomy.
func classifyError(err error) *UpstreamError {
	if errors.Is(err, ErrNotConfigured) {
		return &UpstreamError{
			Code:     "OpenAI API key not configured",
			Status:   500,
			Response: "I apologize, but my AI services are not properly configured. Please ensure the OpenAI API key is set up.",
			Err:      err,
		}
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		out := classifyStatus(apiErr.StatusCode)
		out.Err = err
		return out
	}

	return &UpstreamError{
		Code:     "Internal server error",
		Status:   500,
		Response: "I apologize, but I encountered an unexpected error. Please try again later.",
		Err:      err,
	}
}

// classifyStatus maps an upstream HTTP status to the taxonomy: invalid key,
// rate limit, insufficient quota, or a generic failure.
func classifyStatus(status int) *UpstreamError {
	switch status {
	case 401:
		return &UpstreamError{
			Code:     "Invalid API key",
			Status:   401,
			Response: "There seems to be an issue with my configuration. Please check the API key setup.",
		}
	case 429:
		return &UpstreamError{
			Code:     "Rate limit exceeded",
			Status:   429,
			Response: "I apologize, but I'm experiencing high traffic right now. Please try again in a moment.",
		}
	case 403:
		return &UpstreamError{
			Code:     "Insufficient quota",
			Status:   403,
			Response: "I apologize, but my AI services are temporarily unavailable due to quota limitations.",
		}
	}
	return &UpstreamError{
		Code:     "Internal server error",
		Status:   500,
		Response: "I apologize, but I encountered an unexpected error. Please try again later.",
	}
}
