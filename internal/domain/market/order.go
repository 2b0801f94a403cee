package market

import (
	"time"

	"fio-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidVisibility = errs.New("invalid visibility")
	ErrInvalidLimitMode  = errs.New("invalid limit mode")
	ErrInvalidPrice      = errs.New("price must be positive")
	ErrInvalidQuantity   = errs.New("quantity must be positive")
	ErrMissingCommodity  = errs.New("commodity is required")
	ErrMissingLocation   = errs.New("location is required")
	ErrMissingCurrency   = errs.New("currency is required")
)

// Visibility gates which permission class of viewer may see a listing.
type Visibility string

const (
	VisibilityInternal Visibility = "internal"
	VisibilityPartner  Visibility = "partner"
)

// Capability returns the permission-oracle capability a viewer needs to see
// listings with this visibility.
func (v Visibility) Capability() string {
	switch v {
	case VisibilityInternal:
		return CapabilityViewInternal
	case VisibilityPartner:
		return CapabilityViewPartner
	default:
		return ""
	}
}

const (
	CapabilityViewInternal = "market.view_internal"
	CapabilityViewPartner  = "market.view_partner"
)

func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityInternal, VisibilityPartner:
		return Visibility(s), nil
	default:
		return "", errs.Mark(errs.Newf("unknown visibility %q", s), ErrInvalidVisibility)
	}
}

// LimitMode is the per-order policy controlling how much of the raw FIO
// inventory is offered for sale.
type LimitMode string

const (
	// LimitModeNone sells everything synced.
	LimitModeNone LimitMode = "none"
	// LimitModeMaxSell caps the listed amount at a ceiling.
	LimitModeMaxSell LimitMode = "max_sell"
	// LimitModeReserve withholds a floor amount from sale.
	LimitModeReserve LimitMode = "reserve"
)

func ParseLimitMode(s string) (LimitMode, error) {
	switch LimitMode(s) {
	case LimitModeNone, LimitModeMaxSell, LimitModeReserve:
		return LimitMode(s), nil
	default:
		return "", errs.Mark(errs.Newf("unknown limit mode %q", s), ErrInvalidLimitMode)
	}
}

// SellOrder is a standing offer backed by externally synced inventory. One
// row exists per (owner, commodity, location, visibility, currency); posting
// again with the same key replaces the prior order.
type SellOrder struct {
	ID            int64
	OwnerID       uuid.UUID
	Commodity     string
	Location      string
	Price         float64
	Currency      string
	Visibility    Visibility
	LimitMode     LimitMode
	LimitQuantity *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BuyOrder is a standing request. Quantity is the requested amount, not
// derived from inventory.
type BuyOrder struct {
	ID         int64
	OwnerID    uuid.UUID
	Commodity  string
	Location   string
	Quantity   int
	Price      float64
	Currency   string
	Visibility Visibility
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewSellOrder(ownerID uuid.UUID, commodity, location string, price float64, currency string, visibility Visibility, limitMode LimitMode, limitQuantity *int) (*SellOrder, error) {
	if err := validateOrderFields(commodity, location, price, currency, visibility); err != nil {
		return nil, err
	}
	if _, err := ParseLimitMode(string(limitMode)); err != nil {
		return nil, err
	}
	if limitMode != LimitModeNone && limitQuantity != nil && *limitQuantity < 0 {
		return nil, errs.Mark(errs.New("limit quantity cannot be negative"), ErrInvalidQuantity)
	}

	return &SellOrder{
		OwnerID:       ownerID,
		Commodity:     commodity,
		Location:      location,
		Price:         price,
		Currency:      currency,
		Visibility:    visibility,
		LimitMode:     limitMode,
		LimitQuantity: limitQuantity,
	}, nil
}

func NewBuyOrder(ownerID uuid.UUID, commodity, location string, quantity int, price float64, currency string, visibility Visibility) (*BuyOrder, error) {
	if err := validateOrderFields(commodity, location, price, currency, visibility); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	return &BuyOrder{
		OwnerID:    ownerID,
		Commodity:  commodity,
		Location:   location,
		Quantity:   quantity,
		Price:      price,
		Currency:   currency,
		Visibility: visibility,
	}, nil
}

func validateOrderFields(commodity, location string, price float64, currency string, visibility Visibility) error {
	if commodity == "" {
		return ErrMissingCommodity
	}
	if location == "" {
		return ErrMissingLocation
	}
	if price <= 0 {
		return ErrInvalidPrice
	}
	if currency == "" {
		return ErrMissingCurrency
	}
	if _, err := ParseVisibility(string(visibility)); err != nil {
		return err
	}
	return nil
}
