package audit

import "errors"

var (
	// ErrUnknownCategory is returned for a category outside the fixed set.
	ErrUnknownCategory = errors.New("unknown evidence category")
	// ErrInvalidProfile covers enum fields of the client profile.
	ErrInvalidProfile = errors.New("invalid client profile")
)
