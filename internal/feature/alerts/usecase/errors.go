package usecase

import "errors"

// ErrUnknownKind is returned by Record when the crossing kind is not MIN_BREACH or MAX_BREACH.
var ErrUnknownKind = errors.New("unknown alert kind")
