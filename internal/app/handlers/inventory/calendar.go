package inventory

import (
	"context"
	"time"

	"innkeep/internal/app/dto"
	"innkeep/internal/app/queries"
	"innkeep/internal/app/uow"
	domaincatalog "innkeep/internal/domain/catalog"
	domainrange "innkeep/internal/domain/shared/daterange"
)

const getCalendarKey = "inventory.calendar"

// GetCalendarQuery reads the per-night ledger view for a room type.
type GetCalendarQuery struct {
	RoomTypeID string
	From       time.Time
	To         time.Time
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

type GetCalendarHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetCalendarHandler) Handle(ctx context.Context, query GetCalendarQuery) (*dto.Calendar, error) {
	unit, managed, err := unitFor(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	window, err := domainrange.New(query.From, query.To)
	if err != nil {
		return nil, err
	}
	days, err := unit.Inventory().ForRange(ctx, domaincatalog.RoomTypeID(query.RoomTypeID), window)
	if err != nil {
		return nil, err
	}
	calendar := dto.MapCalendar(query.RoomTypeID, days)
	return &calendar, nil
}

var _ queries.Handler[GetCalendarQuery, *dto.Calendar] = (*GetCalendarHandler)(nil)
