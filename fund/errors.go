package fund

import "errors"

var (
	// ErrNotFound: the requested fund (or activity) does not exist.
	ErrNotFound = errors.New("activity not found")

	// ErrNotPooledFund: the activity exists but is not flagged as a pooled fund.
	ErrNotPooledFund = errors.New("activity is not a pooled fund")
)
