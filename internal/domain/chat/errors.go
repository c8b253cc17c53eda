package chat

import "errors"

var (
	// ErrEmptyCompletion marks a provider response without usable text
	// (missing or empty choices). Treated like any other provider failure.
	ErrEmptyCompletion = errors.New("provider returned empty completion")

	// ErrUnsupportedDialect marks a provider whose wire dialect has no
	// completer implementation.
	ErrUnsupportedDialect = errors.New("unsupported provider dialect")
)
