package weather

import (
	"errors"
	"fmt"
)

// Sentinel errors providers wrap so the adapter can classify failures.
var (
	// ErrMissingCredential means no API key is configured for the provider.
	ErrMissingCredential = errors.New("provider credential is not configured")
	// ErrNotFound means the provider could not resolve the location.
	ErrNotFound = errors.New("location not found")
	// ErrRateLimited means the provider rejected the request with a 429.
	ErrRateLimited = errors.New("rate limited")
	// ErrUpstreamStatus means the provider answered with an unexpected
	// HTTP status.
	ErrUpstreamStatus = errors.New("unexpected upstream status")
	// ErrMalformedResponse means the provider body lacked expected fields.
	ErrMalformedResponse = errors.New("malformed provider response")
	// ErrEmptyQuery means the location query was empty after trimming.
	ErrEmptyQuery = errors.New("location query is empty")
)

// FailureCause identifies why a fetch fell back to demo data.
type FailureCause string

const (
	CauseNone       FailureCause = ""
	CauseEmptyQuery FailureCause = "empty_query"
	CauseMissingKey FailureCause = "missing_key"
	CauseNotFound   FailureCause = "not_found"
	CauseRateLimit  FailureCause = "rate_limited"
	CauseHTTP       FailureCause = "http_error"
	CauseTransport  FailureCause = "transport_error"
)

// FetchReport describes a fetch that fell back to demo data. A nil report
// means the fetch succeeded against the live provider.
type FetchReport struct {
	Cause   FailureCause `json:"cause"`
	Message string       `json:"message"`
	Err     error        `json:"-"`
}

// ClassifyError maps a provider error to a failure cause.
func ClassifyError(err error) FailureCause {
	switch {
	case err == nil:
		return CauseNone
	case errors.Is(err, ErrEmptyQuery):
		return CauseEmptyQuery
	case errors.Is(err, ErrMissingCredential):
		return CauseMissingKey
	case errors.Is(err, ErrNotFound):
		return CauseNotFound
	case errors.Is(err, ErrRateLimited):
		return CauseRateLimit
	case errors.Is(err, ErrUpstreamStatus):
		return CauseHTTP
	default:
		// Transport, timeout, and parse failures end up here.
		return CauseTransport
	}
}

// NewFetchReport builds the user-facing report for a failed fetch. Each
// cause has a distinct message template so the UI can say why demo data is
// being shown.
func NewFetchReport(err error) *FetchReport {
	cause := ClassifyError(err)
	var msg string
	switch cause {
	case CauseEmptyQuery:
		msg = "Please enter a location to search for."
	case CauseMissingKey:
		msg = "API key is missing. Using demo data instead."
	case CauseNotFound:
		msg = "Location not found. Using demo data instead."
	case CauseRateLimit:
		msg = "API rate limit exceeded. Using demo data instead."
	case CauseHTTP:
		msg = fmt.Sprintf("API error (%v). Using demo data instead.", err)
	default:
		msg = "Failed to fetch weather data. Using demo data instead."
	}
	return &FetchReport{Cause: cause, Message: msg, Err: err}
}
