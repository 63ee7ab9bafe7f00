package models

import "time"

// FetchErrorKind categorizes transport-level fetch failures.
type FetchErrorKind string

const (
	FetchErrorNone             FetchErrorKind = ""
	FetchErrorTimeout          FetchErrorKind = "timeout"
	FetchErrorConnectionFailed FetchErrorKind = "connection_failed"
	FetchErrorTLS              FetchErrorKind = "tls_error"
	FetchErrorOther            FetchErrorKind = "other"
)

// FetchOutcome is the result of a single fetch attempt against one URL.
// StatusCode is 0 when no HTTP response was obtained; Body is populated only
// for successful HTML responses and is consumed by the link extractor.
type FetchOutcome struct {
	URL          string
	StatusCode   int
	ContentType  string
	Body         []byte
	ErrorKind    FetchErrorKind
	ErrorMessage string
	Duration     time.Duration
}

// Failed reports whether the fetch produced no HTTP response at all.
func (fo FetchOutcome) Failed() bool {
	return fo.StatusCode == 0
}

// IsHTML reports whether the outcome carries an HTML body to extract links from.
func (fo FetchOutcome) IsHTML() bool {
	return len(fo.Body) > 0
}
