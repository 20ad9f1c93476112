package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	domaincatalog "innkeep/internal/domain/catalog"
	domaininventory "innkeep/internal/domain/inventory"
	"innkeep/internal/domain/pricing"
	domainrates "innkeep/internal/domain/rates"
	domainrestrictions "innkeep/internal/domain/restrictions"
	domainrange "innkeep/internal/domain/shared/daterange"
)

// respondError translates domain errors into HTTP statuses: bad input is 400,
// unknown references are 404, sellable-state conflicts are 409.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainrange.ErrInvalidRange),
		errors.Is(err, domaininventory.ErrInvalidQuantity),
		errors.Is(err, pricing.ErrInvalidGuests):
		return http.StatusBadRequest
	case errors.Is(err, domaincatalog.ErrRoomTypeNotFound),
		errors.Is(err, domainrates.ErrRatePlanNotFound),
		errors.Is(err, domaininventory.ErrNoInventoryRecord):
		return http.StatusNotFound
	case errors.Is(err, domaininventory.ErrInsufficientRooms),
		errors.Is(err, domaininventory.ErrStopSellActive),
		errors.Is(err, domaininventory.ErrMinStayViolation),
		errors.Is(err, domainrates.ErrRatePlanInactive),
		errors.Is(err, domainrates.ErrRatePlanNotApplicable),
		errors.Is(err, pricing.ErrStayLengthViolation),
		errors.Is(err, domainrestrictions.ErrStopSellRestricted),
		errors.Is(err, domainrestrictions.ErrMinStayRequired),
		errors.Is(err, domainrestrictions.ErrMaxStayExceeded),
		errors.Is(err, domainrestrictions.ErrClosedToArrival),
		errors.Is(err, domainrestrictions.ErrClosedToDeparture):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
