package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"briefsky.app/internal/ports"
	"briefsky.app/pkg/errors"
)

// HTTPClient interface for HTTP requests (for testing)
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Clock returns the current time
type Clock func() time.Time

// errorField extracts the provider's error text from a response body.
// An empty result means the body carries no error.
type errorField func(body []byte) string

// jsonErrorField reads a string at path in a JSON object body
func jsonErrorField(path ...string) errorField {
	return func(body []byte) string {
		var node interface{}
		if err := json.Unmarshal(body, &node); err != nil {
			return ""
		}
		for _, key := range path {
			object, ok := node.(map[string]interface{})
			if !ok {
				return ""
			}
			node = object[key]
		}
		text, _ := node.(string)
		return text
	}
}

// upstreamRequest describes one provider fetch
type upstreamRequest struct {
	// Provider is the human readable provider name used in failure messages
	Provider string
	// Query identifies what was asked for, e.g. a location or station id
	Query string
	URL   string
	// ErrorField is checked on every response
	ErrorField errorField
	// ErrorText uses the raw body as the detail of a non-2xx response
	ErrorText bool
}

func (r upstreamRequest) failure(detail string) string {
	if r.Query == "" {
		return fmt.Sprintf("fetching from %s: %s", r.Provider, detail)
	}
	return fmt.Sprintf("fetching from %s for %s: %s", r.Provider, r.Query, detail)
}

// fetchJSON performs exactly one GET and decodes the body into out.
// Transport errors are network failures, non-2xx statuses and error
// payloads are upstream failures and malformed bodies are decode failures.
func fetchJSON(ctx context.Context, client HTTPClient, logger ports.Logger, request upstreamRequest, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, request.URL, nil)
	if err != nil {
		return errors.NewNetworkError(request.failure(err.Error()), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return errors.NewNetworkError(request.failure(err.Error()), err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close provider response body",
				ports.F("provider", request.Provider),
				ports.F("error", closeErr))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewNetworkError(request.failure(err.Error()), err)
	}

	detail := ""
	if request.ErrorField != nil {
		detail = request.ErrorField(body)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if detail == "" && request.ErrorText {
			detail = strings.TrimSpace(string(body))
		}
		if detail == "" {
			detail = fmt.Sprintf("returned status %d", resp.StatusCode)
		}
		return errors.NewUpstreamError(request.failure(detail), nil)
	}
	if detail != "" {
		return errors.NewUpstreamError(request.failure(detail), nil)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewDecodeError(request.failure("unexpected response data: "+err.Error()), err)
	}
	return nil
}

func valueAt[T any](values []T, i int) T {
	var zero T
	if i < 0 || i >= len(values) {
		return zero
	}
	return values[i]
}

func defaultBaseURL(baseURL, fallback string) string {
	if baseURL == "" {
		return fallback
	}
	return strings.TrimRight(baseURL, "/")
}

// ProviderOptions holds the dependencies shared by every provider adapter
type ProviderOptions struct {
	BaseURL string
	Client  HTTPClient
	Clock   Clock
	Logger  ports.Logger
}

// withDefaults fills unset options. The client has no timeout: the request
// context bounds the call.
func (o ProviderOptions) withDefaults(baseURL string) ProviderOptions {
	o.BaseURL = defaultBaseURL(o.BaseURL, baseURL)
	if o.Client == nil {
		o.Client = &http.Client{}
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

const unknownConditions = "Unknown"

func unixTime(seconds int64) time.Time {
	return time.Unix(seconds, 0).UTC()
}
