package engine

// Error is a domain-rule violation detected before any state is
// committed.  The code is stable and machine-readable; handlers put it
// in the response body so the UI can decide the next action (for
// example prompting for a refund-vs-fund decision).
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	// ErrCustomerRequired rejects presales without a customer name or
	// phone before any inventory is touched.
	ErrCustomerRequired = &Error{Code: "CUSTOMER_REQUIRED", Message: "customer name and phone are required"}

	// ErrNoSeatsRequested rejects empty or negative seat breakdowns.
	ErrNoSeatsRequested = &Error{Code: "NO_SEATS_REQUESTED", Message: "at least one seat must be requested"}

	// ErrPrepaymentExceedsTotal enforces 0 <= prepayment <= total.
	ErrPrepaymentExceedsTotal = &Error{Code: "PREPAYMENT_EXCEEDS_TOTAL", Message: "prepayment exceeds total price"}

	// ErrInvalidAmount rejects non-positive or malformed amounts.
	ErrInvalidAmount = &Error{Code: "INVALID_AMOUNT", Message: "amount must be a positive number of cents"}

	// ErrMixedSplitMismatch enforces cash + card == amount for MIXED.
	ErrMixedSplitMismatch = &Error{Code: "MIXED_SPLIT_MISMATCH", Message: "cash and card amounts must sum to the payable amount"}

	// ErrNothingOutstanding rejects acceptance of an already fully paid
	// presale.
	ErrNothingOutstanding = &Error{Code: "NOTHING_OUTSTANDING", Message: "presale is already fully paid"}

	// ErrPresaleNotOperable rejects mutations of a presale that is not
	// ACTIVE.  Terminal states stay terminal: no second seat release,
	// no second money reversal.
	ErrPresaleNotOperable = &Error{Code: "PRESALE_NOT_OPERABLE", Message: "presale status does not allow this operation"}

	// ErrDecisionRequired rejects cancellations that would route
	// unrefunded prepayment without an explicit REFUND or FUND choice.
	ErrDecisionRequired = &Error{Code: "REFUND_DECISION_REQUIRED", Message: "unrefunded prepayment requires a refund or fund decision"}

	// ErrSameSlot rejects transfers whose target equals the source.
	ErrSameSlot = &Error{Code: "TRANSFER_SAME_SLOT", Message: "transfer target matches the current slot"}

	// ErrOverrideMissing rejects locking a day that has no override.
	ErrOverrideMissing = &Error{Code: "OVERRIDE_MISSING", Message: "no manual record exists for this day"}
)
