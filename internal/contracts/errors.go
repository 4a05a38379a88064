package contracts

import "errors"

var (
	// ErrNotEvaluable marks a company with insufficient disclosure history or
	// a failed growth/margin guard. Expected and common; never logged as an
	// anomaly and never surfaced to the screener's caller.
	ErrNotEvaluable = errors.New("company not evaluable")

	// ErrInvalidSession is returned when a screening pass is requested
	// without a valid authenticated session. The one blocking, user-visible
	// failure: the pass does not start at all.
	ErrInvalidSession = errors.New("invalid or missing session")
)
