package statutory

import "errors"

var (
	// Missing PT slab surfaces per employee; it never aborts a whole run.
	ErrNoSlabForState      = errors.New("no professional tax slab for state and date")
	ErrRestrictedPfNoOptIn = errors.New("restricted pf mode requires the employee opt-in flag")
	ErrInvalidRate         = errors.New("statutory rate must be between 0 and 100")
)
