package processor

import "errors"

var (
	ErrServiceUnavailable = errors.New("payment processor service is unavailable")
	ErrEmptyResponse      = errors.New("payment processor returned an empty response")
)
