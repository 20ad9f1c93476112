package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"innkeep/internal/app/commands"
	InventoryApp "innkeep/internal/app/handlers/inventory"
)

type AdminHandler struct {
	Commands commands.Bus
}

type bulkUpdateRequest struct {
	RoomTypeID         string    `json:"room_type_id"`
	From               time.Time `json:"from"`
	To                 time.Time `json:"to"`
	TotalRooms         *int      `json:"total_rooms"`
	PriceOverride      *float64  `json:"price_override"`
	ClearPriceOverride bool      `json:"clear_price_override"`
	StopSell           *bool     `json:"stop_sell"`
	MinStay            *int      `json:"min_stay"`
	Currency           string    `json:"currency"`
}

func (h AdminHandler) BulkUpdate(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := InventoryApp.BulkUpdateInventoryCommand{
		CommandID:          generateCommandID(),
		RoomTypeID:         req.RoomTypeID,
		From:               req.From,
		To:                 req.To,
		TotalRooms:         req.TotalRooms,
		PriceOverride:      req.PriceOverride,
		ClearPriceOverride: req.ClearPriceOverride,
		StopSell:           req.StopSell,
		MinStay:            req.MinStay,
		Currency:           req.Currency,
	}
	result, err := commands.Dispatch[InventoryApp.BulkUpdateInventoryCommand, *InventoryApp.BulkUpdateInventoryResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type seedRequest struct {
	RoomTypeID string    `json:"room_type_id"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	TotalRooms int       `json:"total_rooms"`
}

func (h AdminHandler) Seed(c *gin.Context) {
	var req seedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := InventoryApp.SeedInventoryCommand{
		CommandID:  generateCommandID(),
		RoomTypeID: req.RoomTypeID,
		From:       req.From,
		To:         req.To,
		TotalRooms: req.TotalRooms,
	}
	result, err := commands.Dispatch[InventoryApp.SeedInventoryCommand, *InventoryApp.SeedInventoryResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ AdminHTTP = AdminHandler{}
