package rule

import "errors"

var (
	ErrRuleNotFound      = errors.New("calculation rule not found")
	ErrVariableNotFound  = errors.New("formula variable not found")
	ErrInvalidFormula    = errors.New("invalid formula configuration")
	ErrUnknownVariable   = errors.New("formula references an unknown variable")
	ErrCyclicDependency  = errors.New("rule formula has a cyclic or forward dependency")
	ErrOverlappingRule   = errors.New("an active rule for this component already covers the effective range")
	ErrDivisionByZero    = errors.New("formula divides by zero")
	ErrNoMatchingBand    = errors.New("no slab band matches the input amount")
	ErrRuleInFinalizedTx = errors.New("rule is referenced by a finalized transaction and can only be end-dated")
)
