package declaration

import "errors"

var (
	ErrDeclarationNotFound = errors.New("tax declaration not found")
	ErrDeclarationExists   = errors.New("an open declaration already exists for this financial year")
	ErrInvalidTransition   = errors.New("declaration state transition not allowed")
	ErrDeclarationLocked   = errors.New("declaration is locked and cannot be modified")
	ErrNotEditable         = errors.New("declaration can only be edited in draft state")
)
