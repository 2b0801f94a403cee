package commands

import (
	"context"
	"time"

	"fio-market/internal/domain/reservation"
	"fio-market/internal/infra"
	"fio-market/internal/pkg/clock"
	"fio-market/internal/pkg/errs"
	"fio-market/internal/usecase/authz"
	"fio-market/internal/usecase/queries"
	"fio-market/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateReservationParams struct {
	OrderKind reservation.OrderKind
	OrderID   int64
	Quantity  int
	Notes     string
	ExpiresAt *time.Time
}

type ReservationCommands interface {
	CreateReservation(ctx context.Context, actor shared.Identity, p CreateReservationParams) (*queries.ReservationWithDetails, error)
	TransitionReservation(ctx context.Context, actor shared.Identity, id int64, newStatus reservation.Status, notes *string) (*queries.ReservationWithDetails, error)
	DeleteReservation(ctx context.Context, actor shared.Identity, id int64) error
}

type reservationCommandsImpl struct {
	orders       OrderReader
	reservations ReservationReader
	writer       ReservationWriter
	views        ReservationViewReader
	permissions  authz.Oracle
	dispatcher   EventDispatcher
	clock        clock.Clock
}

func NewReservationCommands(
	orders OrderReader,
	reservations ReservationReader,
	writer ReservationWriter,
	views ReservationViewReader,
	permissions authz.Oracle,
	dispatcher EventDispatcher,
	clk clock.Clock,
) ReservationCommands {
	return &reservationCommandsImpl{
		orders:       orders,
		reservations: reservations,
		writer:       writer,
		views:        views,
		permissions:  permissions,
		dispatcher:   dispatcher,
		clock:        clk,
	}
}

// orderFacts is the slice of the parent order the reservation flow needs:
// who owns it, what it trades, and who may see it.
type orderFacts struct {
	ownerID    uuid.UUID
	commodity  string
	location   string
	capability string
}

func (c *reservationCommandsImpl) loadOrderFacts(ctx context.Context, ref reservation.OrderRef) (orderFacts, error) {
	switch ref.Kind {
	case reservation.OrderKindSell:
		o, err := c.orders.SellOrderByID(ctx, ref.ID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return orderFacts{}, ErrOrderNotFound
			}
			return orderFacts{}, errs.Mark(errs.Wrap(err, "failed to load sell order"), shared.ErrInternal)
		}
		return orderFacts{o.OwnerID, o.Commodity, o.Location, o.Visibility.Capability()}, nil
	case reservation.OrderKindBuy:
		o, err := c.orders.BuyOrderByID(ctx, ref.ID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return orderFacts{}, ErrOrderNotFound
			}
			return orderFacts{}, errs.Mark(errs.Wrap(err, "failed to load buy order"), shared.ErrInternal)
		}
		return orderFacts{o.OwnerID, o.Commodity, o.Location, o.Visibility.Capability()}, nil
	default:
		return orderFacts{}, errs.Mark(errs.Newf("unknown order kind %q", ref.Kind), shared.ErrBadRequest)
	}
}

// CreateReservation places a pending claim against someone else's order.
// Checks run in order: order existence, self-dealing, visibility, quantity.
func (c *reservationCommandsImpl) CreateReservation(ctx context.Context, actor shared.Identity, p CreateReservationParams) (*queries.ReservationWithDetails, error) {
	ref := reservation.OrderRef{Kind: p.OrderKind, ID: p.OrderID}

	facts, err := c.loadOrderFacts(ctx, ref)
	if err != nil {
		return nil, err
	}

	if facts.ownerID == actor.UserID {
		if ref.Kind == reservation.OrderKindSell {
			return nil, errs.Mark(reservation.ErrSelfSellReservation, shared.ErrBadRequest)
		}
		return nil, errs.Mark(reservation.ErrSelfBuyReservation, shared.ErrBadRequest)
	}

	if !c.permissions.HasPermission(ctx, actor.Roles, facts.capability) {
		return nil, ErrOrderNotVisible
	}

	res, err := reservation.NewReservation(ref, actor.UserID, p.Quantity, p.Notes, p.ExpiresAt, c.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, shared.ErrBadRequest)
	}

	created, err := c.writer.Create(ctx, res)
	if err != nil {
		// The order can vanish between the read and the insert.
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return nil, ErrOrderNotFound
		}
		return nil, errs.Mark(errs.Wrap(err, "failed to create reservation"), shared.ErrInternal)
	}

	c.dispatcher.Dispatch(ctx, reservation.NewPlacedEvent(facts.ownerID, reservation.EventData{
		ReservationID:      created.ID,
		OrderID:            ref.ID,
		OrderKind:          ref.Kind,
		CounterpartyUserID: actor.UserID,
		Quantity:           created.Quantity,
		Commodity:          facts.commodity,
		Location:           facts.location,
	}))

	return c.details(ctx, created.ID)
}

// TransitionReservation moves a reservation along the status machine.
// Authorization depends on the target status, not the caller's roles: the
// order owner confirms and rejects, either party fulfills or cancels, and
// only the original counterparty reopens a cancelled reservation.
func (c *reservationCommandsImpl) TransitionReservation(ctx context.Context, actor shared.Identity, id int64, newStatus reservation.Status, notes *string) (*queries.ReservationWithDetails, error) {
	if _, err := reservation.ParseStatus(string(newStatus)); err != nil {
		return nil, errs.Mark(err, shared.ErrBadRequest)
	}

	// Only an absent notes field keeps the stored notes; an empty string would
	// otherwise overwrite them through the COALESCE in the update.
	if notes != nil && *notes == "" {
		notes = nil
	}

	res, err := c.reservations.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(errs.Wrap(err, "failed to load reservation"), shared.ErrInternal)
	}

	// A reservation whose parent order row is gone behaves like any other
	// missing order.
	ref, err := res.OrderRef()
	if err != nil {
		return nil, ErrOrderNotFound
	}

	facts, err := c.loadOrderFacts(ctx, ref)
	if err != nil {
		return nil, err
	}

	// A disallowed pair is always a bad request, no matter who asks; only an
	// allowed pair attempted by the wrong actor is forbidden.
	if !reservation.CanTransition(res.Status, newStatus) {
		return nil, errs.Mark(errs.Newf("Cannot transition from '%s' to '%s'", res.Status, newStatus), shared.ErrBadRequest)
	}

	isOwner := actor.UserID == facts.ownerID
	isCounterparty := actor.UserID == res.CounterpartyUserID

	if err := reservation.AuthorizeTransition(newStatus, isOwner, isCounterparty); err != nil {
		return nil, errs.Mark(err, shared.ErrForbidden)
	}

	if err := c.writer.UpdateStatus(ctx, id, newStatus, notes, c.clock.Now()); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(errs.Wrap(err, "failed to update reservation status"), shared.ErrInternal)
	}

	// Notify the party that did not act.
	recipient := facts.ownerID
	if isOwner {
		recipient = res.CounterpartyUserID
	}
	c.dispatcher.Dispatch(ctx, reservation.NewStatusEvent(newStatus, recipient, reservation.EventData{
		ReservationID:      res.ID,
		OrderID:            ref.ID,
		OrderKind:          ref.Kind,
		CounterpartyUserID: res.CounterpartyUserID,
		Quantity:           res.Quantity,
		Commodity:          facts.commodity,
		Location:           facts.location,
	}))

	return c.details(ctx, id)
}

// DeleteReservation removes a pending reservation entirely. Unlike cancel it
// leaves no trace, so it is reserved for the counterparty that placed it.
func (c *reservationCommandsImpl) DeleteReservation(ctx context.Context, actor shared.Identity, id int64) error {
	res, err := c.reservations.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrReservationNotFound
		}
		return errs.Mark(errs.Wrap(err, "failed to load reservation"), shared.ErrInternal)
	}

	if res.CounterpartyUserID != actor.UserID {
		return errs.Mark(reservation.ErrNotCounterparty, shared.ErrForbidden)
	}
	if res.Status != reservation.StatusPending {
		return errs.Mark(reservation.ErrStatusNotPending, shared.ErrBadRequest)
	}

	if err := c.writer.Delete(ctx, id); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrReservationNotFound
		}
		return errs.Mark(errs.Wrap(err, "failed to delete reservation"), shared.ErrInternal)
	}
	return nil
}

func (c *reservationCommandsImpl) details(ctx context.Context, id int64) (*queries.ReservationWithDetails, error) {
	d, err := c.views.DetailsByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to load reservation details"), shared.ErrInternal)
	}
	return d, nil
}
