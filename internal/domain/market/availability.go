package market

// AvailableQuantity derives how much of a seller's synced inventory is
// actually sellable under the order's limit policy. Pure arithmetic, no
// failure modes. A (owner, commodity, location) key absent from the snapshot
// is passed in as 0.
func AvailableQuantity(fioQuantity int, mode LimitMode, limitQuantity *int) int {
	if fioQuantity < 0 {
		fioQuantity = 0
	}

	limit := 0
	if limitQuantity != nil {
		limit = *limitQuantity
	}

	switch mode {
	case LimitModeNone:
		return fioQuantity
	case LimitModeMaxSell:
		if fioQuantity < limit {
			return fioQuantity
		}
		if limit < 0 {
			return 0
		}
		return limit
	case LimitModeReserve:
		remaining := fioQuantity - limit
		if remaining < 0 {
			return 0
		}
		return remaining
	default:
		// Unknown modes fall back to the unrestricted quantity.
		return fioQuantity
	}
}

// RemainingQuantity nets available supply against outstanding active
// reservations, floored at zero. Oversubscription is allowed by design; it
// surfaces here as a shrinking remainder, never as an error.
func RemainingQuantity(available, reserved int) int {
	remaining := available - reserved
	if remaining < 0 {
		return 0
	}
	return remaining
}
