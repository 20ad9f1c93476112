package catalog

import (
	"context"
	"errors"

	"innkeep/internal/domain/shared/money"
)

var ErrRoomTypeNotFound = errors.New("catalog: room type not found")

type RoomTypeID string

// RoomType is the sellable unit of the property. Records are owned by catalog
// management; this engine only reads them.
type RoomType struct {
	ID             RoomTypeID
	Name           string
	BaseRate       money.Money
	BaseOccupancy  int
	MaxOccupancy   int
	ExtraAdultRate money.Money
	ExtraChildRate money.Money
	TotalRooms     int
	Active         bool
}

// Fits reports whether the room type can host the requested guest count.
func (rt *RoomType) Fits(guests int) bool {
	return guests > 0 && guests <= rt.MaxOccupancy
}

// ExtraAdults returns the number of adults beyond the included base occupancy.
func (rt *RoomType) ExtraAdults(adults int) int {
	extra := adults - rt.BaseOccupancy
	if extra < 0 {
		return 0
	}
	return extra
}

type Repository interface {
	ByID(ctx context.Context, id RoomTypeID) (*RoomType, error)
	Active(ctx context.Context) ([]*RoomType, error)
}
