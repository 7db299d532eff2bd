package httputil

import (
	"net/http"
	"time"
)

const DefaultTimeout = 30 * time.Second

// UserAgent identifies the tool to the forecast APIs.
const UserAgent = "weatherdesk/1.0"

// NewClient returns an HTTP client with standard timeout configuration.
// A hung request is bounded by this timeout and nothing else; the
// callers perform no retries.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
	}
}
