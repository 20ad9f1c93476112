package ginserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"innkeep/internal/app/dto"
	AvailabilityApp "innkeep/internal/app/handlers/availability"
	"innkeep/internal/app/queries"
)

var errBadDate = errors.New("dates must use YYYY-MM-DD")

type AvailabilityHandler struct {
	Queries queries.Bus
}

func (h AvailabilityHandler) Search(c *gin.Context) {
	checkIn, checkOut, ok := parseStayDates(c)
	if !ok {
		return
	}
	guests, err := strconv.Atoi(c.DefaultQuery("guests", "1"))
	if err != nil || guests < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guests must be a positive integer"})
		return
	}
	query := AvailabilityApp.SearchStayQuery{
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     guests,
		RoomTypeID: c.Query("room_type_id"),
		Channel:    c.Query("channel"),
	}
	result, err := queries.Ask[AvailabilityApp.SearchStayQuery, *dto.SearchResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) Quote(c *gin.Context) {
	checkIn, checkOut, ok := parseStayDates(c)
	if !ok {
		return
	}
	adults, err := strconv.Atoi(c.DefaultQuery("adults", "1"))
	if err != nil || adults < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "adults must be a positive integer"})
		return
	}
	children, err := strconv.Atoi(c.DefaultQuery("children", "0"))
	if err != nil || children < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "children must be a non-negative integer"})
		return
	}
	query := AvailabilityApp.QuoteStayQuery{
		RoomTypeID:   c.Query("room_type_id"),
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Adults:       adults,
		Children:     children,
		RatePlanID:   c.Query("rate_plan_id"),
		GuestSegment: c.Query("guest_segment"),
	}
	result, err := queries.Ask[AvailabilityApp.QuoteStayQuery, *dto.Quote](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) CheckRestrictions(c *gin.Context) {
	checkIn, checkOut, ok := parseStayDates(c)
	if !ok {
		return
	}
	query := AvailabilityApp.CheckRestrictionsQuery{
		RoomTypeID: c.Query("room_type_id"),
		RatePlanID: c.Query("rate_plan_id"),
		Channel:    c.Query("channel"),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	}
	result, err := queries.Ask[AvailabilityApp.CheckRestrictionsQuery, *AvailabilityApp.RestrictionDecision](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseStayDates(c *gin.Context) (time.Time, time.Time, bool) {
	checkIn, err := time.Parse("2006-01-02", c.Query("check_in"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadDate.Error()})
		return time.Time{}, time.Time{}, false
	}
	checkOut, err := time.Parse("2006-01-02", c.Query("check_out"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadDate.Error()})
		return time.Time{}, time.Time{}, false
	}
	return checkIn, checkOut, true
}

var _ AvailabilityHTTP = AvailabilityHandler{}
