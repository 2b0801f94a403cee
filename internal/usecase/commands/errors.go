package commands

import (
	"fio-market/internal/pkg/errs"
	"fio-market/internal/usecase/shared"
)

var (
	ErrOrderNotFound       = errs.Mark(errs.New("Order not found"), shared.ErrNotFound)
	ErrReservationNotFound = errs.Mark(errs.New("Reservation not found"), shared.ErrNotFound)
	ErrOrderNotVisible     = errs.Mark(errs.New("You do not have permission to reserve against this order"), shared.ErrForbidden)
)
