package pdfsite

import (
	"errors"
	"fmt"
)

// SiteError is a local failure detected before the provisioning engine runs.
//
// Code is stable and safe to match on; Err carries the underlying cause when there is one.
type SiteError struct {
	Code    string
	Message string
	Err     error
}

func (e *SiteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SiteError) Unwrap() error {
	return e.Err
}

func newSiteError(code, message string, err error) *SiteError {
	return &SiteError{Code: code, Message: message, Err: err}
}

// ErrorCode returns the SiteError code carried by err, or "" when there is none.
func ErrorCode(err error) string {
	var siteErr *SiteError
	if errors.As(err, &siteErr) {
		return siteErr.Code
	}
	return ""
}
