package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"innkeep/internal/app/commands"
	"innkeep/internal/app/dto"
	InventoryApp "innkeep/internal/app/handlers/inventory"
	"innkeep/internal/app/queries"
)

type InventoryHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type reservationRequest struct {
	RoomTypeID string    `json:"room_type_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Quantity   int       `json:"quantity"`
}

func (h InventoryHandler) Reserve(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := InventoryApp.ReserveInventoryCommand{
		CommandID:       generateCommandID(),
		RoomTypeID:      req.RoomTypeID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Quantity:        req.Quantity,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[InventoryApp.ReserveInventoryCommand, *InventoryApp.ReserveInventoryResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h InventoryHandler) Release(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := InventoryApp.ReleaseInventoryCommand{
		CommandID:       generateCommandID(),
		RoomTypeID:      req.RoomTypeID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Quantity:        req.Quantity,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[InventoryApp.ReleaseInventoryCommand, *InventoryApp.ReleaseInventoryResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h InventoryHandler) Calendar(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadDate.Error()})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadDate.Error()})
		return
	}
	query := InventoryApp.GetCalendarQuery{
		RoomTypeID: c.Param("id"),
		From:       from,
		To:         to,
	}
	result, err := queries.Ask[InventoryApp.GetCalendarQuery, *dto.Calendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ InventoryHTTP = InventoryHandler{}
