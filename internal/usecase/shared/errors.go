package shared

import "fio-market/internal/pkg/errs"

// Error taxonomy markers. Specific errors are marked with exactly one of
// these so handlers can map them to a transport status without knowing
// every sentinel.
var (
	ErrNotFound   = errs.New("not found")
	ErrBadRequest = errs.New("bad request")
	ErrForbidden  = errs.New("forbidden")
	ErrInternal   = errs.New("internal error")
)
