package mediawiki

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/wbedit/internal/core/domain"
)

// HTTPError represents a non-200 HTTP response from the API endpoint.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("mediawiki: HTTP %d %s (URL: %s)", e.StatusCode, e.Status, e.URL)
}

// LoginError reports a login attempt the service did not accept.
type LoginError struct {
	Result string
	Reason string
}

func (e *LoginError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("mediawiki: login failed: %s", e.Result)
	}
	return fmt.Sprintf("mediawiki: login failed: %s: %s", e.Result, e.Reason)
}

// Unwrap makes errors.Is(err, domain.ErrAuthInvalid) hold.
func (e *LoginError) Unwrap() error {
	return domain.ErrAuthInvalid
}

// apiErrorBody is the "error" section of a response.
type apiErrorBody struct {
	Code string  `json:"code"`
	Info string  `json:"info"`
	Lag  float64 `json:"lag"`
	Star string  `json:"*"`
}

// parseAPIError converts the raw "error" section into a domain.APIError.
func parseAPIError(raw json.RawMessage) error {
	var body apiErrorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("decode API error: %w", err)
	}

	apiErr := &domain.APIError{
		Code: body.Code,
		Info: body.Info,
	}
	if apiErr.Info == "" {
		apiErr.Info = body.Star
	}
	if body.Code == domain.ErrorCodeMaxlag && body.Lag > 0 {
		apiErr.Lag = time.Duration(body.Lag * float64(time.Second))
	}
	return apiErr
}
