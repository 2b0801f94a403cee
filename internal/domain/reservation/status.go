package reservation

import "fio-market/internal/pkg/errs"

var (
	ErrInvalidStatus       = errs.New("invalid reservation status")
	ErrInvalidTransition   = errs.New("invalid status transition")
	ErrNotOrderOwner       = errs.New("Only the order owner can perform this action")
	ErrNotCounterparty     = errs.New("Only the reservation counterparty can perform this action")
	ErrNotParticipant      = errs.New("Only the order owner or the reservation counterparty can perform this action")
	ErrStatusNotPending    = errs.New("Only pending reservations can be deleted")
	ErrInvalidQuantity     = errs.New("Reservation quantity must be positive")
	ErrSelfSellReservation = errs.New("You cannot create a reservation against your own sell order")
	ErrSelfBuyReservation  = errs.New("You cannot create a reservation against your own buy order")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusFulfilled Status = "fulfilled"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusRejected, StatusFulfilled, StatusExpired, StatusCancelled:
		return Status(s), nil
	default:
		return "", errs.Mark(errs.Newf("unknown reservation status %q", s), ErrInvalidStatus)
	}
}

// validNext is the transition table. rejected, fulfilled and expired are
// terminal. cancelled -> pending reopens a cancelled reservation in place,
// keeping its quantity and history; only the original counterparty may take
// that path, so a cancelled claim cannot be revived by the order owner.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusRejected: true, StatusCancelled: true},
	StatusConfirmed: {StatusFulfilled: true, StatusCancelled: true},
	StatusCancelled: {StatusPending: true},
	StatusRejected:  {},
	StatusFulfilled: {},
	StatusExpired:   {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// IsActive reports whether the reservation still represents a real claim on
// supply and therefore counts against remaining quantity.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// AuthorizeTransition enforces the per-transition actor matrix:
//
//	confirm            order owner only
//	reject             order owner only
//	fulfill            either party
//	cancel             either party
//	reopen (->pending) the original counterparty only
func AuthorizeTransition(to Status, isOwner, isCounterparty bool) error {
	if !isOwner && !isCounterparty {
		return ErrNotParticipant
	}

	switch to {
	case StatusConfirmed, StatusRejected:
		if !isOwner {
			return ErrNotOrderOwner
		}
	case StatusFulfilled, StatusCancelled:
		// either party
	case StatusPending:
		if !isCounterparty {
			return ErrNotCounterparty
		}
	default:
		return errs.Mark(errs.Newf("unknown reservation status %q", to), ErrInvalidStatus)
	}
	return nil
}
