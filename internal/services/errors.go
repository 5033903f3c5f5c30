package services

import "errors"

// ErrInvalidTimestamp marks a caller-supplied timestamp that could not be
// parsed. The boundary maps it to a 4xx; it is never coerced to "now".
var ErrInvalidTimestamp = errors.New("invalid timestamp")
