package lifecycle

import "errors"

// Typed failures surfaced to callers. Handlers map them onto response codes;
// wrap with %w so errors.Is keeps working across layers.
var (
	// ErrValidation: bad parameters (out-of-range duration, missing reason).
	ErrValidation = errors.New("invalid parameters")
	// ErrNotFound: the operation targets an unknown user account.
	ErrNotFound = errors.New("user account not found")
	// ErrPrecondition: transition attempted from an invalid source state.
	ErrPrecondition = errors.New("transition not allowed from current state")
	// ErrUpstreamPayment: the payment collaborator declined; state untouched.
	ErrUpstreamPayment = errors.New("payment gateway declined")
)
