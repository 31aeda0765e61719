package tax

import "errors"

var (
	ErrScheduleNotFound = errors.New("no tax schedule for regime and financial year")
	ErrInvalidPeriod    = errors.New("period index must be between 0 (April) and 11 (March)")
	// The monthly split must reconcile to the annual liability to the paisa;
	// a mismatch is fatal and blocks finalization.
	ErrRoundingReconciliation = errors.New("monthly tds schedule does not reconcile with annual liability")
)
