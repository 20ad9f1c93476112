package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincatalog "innkeep/internal/domain/catalog"
	domaininventory "innkeep/internal/domain/inventory"
	domainrange "innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
)

// InventoryLedger persists the availability ledger, one document per
// (room type, night). Reserve runs inside the caller's session transaction:
// the conditional multi-document decrement either covers every night or the
// transaction aborts.
type InventoryLedger struct {
	col *mongo.Collection
}

func NewInventoryLedger(db *mongo.Database) *InventoryLedger {
	return &InventoryLedger{col: db.Collection("inventory_days")}
}

func (r *InventoryLedger) Reserve(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, stay domainrange.DateRange, quantity int) error {
	days, err := r.ForRange(ctx, roomTypeID, stay)
	if err != nil {
		return err
	}
	if err := domaininventory.ValidateReservation(days, stay, quantity); err != nil {
		return err
	}

	// The guard condition re-checks availability at write time: a racing
	// reservation between read and write leaves ModifiedCount short and the
	// surrounding transaction aborts.
	filter := bson.M{
		"room_type_id":    string(roomTypeID),
		"date":            bson.M{"$in": dateKeys(stay)},
		"available_rooms": bson.M{"$gte": quantity},
		"stop_sell":       false,
	}
	update := bson.M{"$inc": bson.M{"available_rooms": -quantity}}
	res, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return err
	}
	if int(res.ModifiedCount) != stay.Nights() {
		return domaininventory.FailNight(domaininventory.ErrInsufficientRooms, stay.CheckIn)
	}
	return nil
}

func (r *InventoryLedger) Release(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, stay domainrange.DateRange, quantity int) error {
	if quantity < 1 {
		return domaininventory.ErrInvalidQuantity
	}
	filter := bson.M{
		"room_type_id": string(roomTypeID),
		"date":         bson.M{"$in": dateKeys(stay)},
	}
	// Pipeline update clamps at capacity so a duplicate release cannot
	// inflate availability.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"available_rooms": bson.M{"$min": bson.A{
				"$total_rooms",
				bson.M{"$add": bson.A{"$available_rooms", quantity}},
			}},
		}}},
	}
	_, err := r.col.UpdateMany(ctx, filter, update)
	return err
}

func (r *InventoryLedger) ForRange(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, stay domainrange.DateRange) ([]domaininventory.InventoryDay, error) {
	filter := bson.M{
		"room_type_id": string(roomTypeID),
		"date":         bson.M{"$in": dateKeys(stay)},
	}
	opts := options.Find().SetSort(bson.M{"date": 1})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []domaininventory.InventoryDay
	for cursor.Next(ctx) {
		var doc inventoryDayDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

func (r *InventoryLedger) BulkUpdate(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, stay domainrange.DateRange, update domaininventory.DayUpdate) (int, error) {
	filter := bson.M{
		"room_type_id": string(roomTypeID),
		"date":         bson.M{"$in": dateKeys(stay)},
	}

	set := bson.M{}
	if update.StopSell != nil {
		set["stop_sell"] = *update.StopSell
	}
	if update.MinStay != nil {
		set["min_stay"] = *update.MinStay
	}
	if update.ClearPriceOverride {
		set["price_override"] = nil
	} else if update.PriceOverride != nil {
		set["price_override"] = newMoneyDocument(*update.PriceOverride)
	}
	if update.TotalRooms != nil {
		// Capacity changes preserve the sold count: available follows total,
		// floored at zero when rooms were oversold relative to the new total.
		set["total_rooms"] = *update.TotalRooms
		set["available_rooms"] = bson.M{"$max": bson.A{
			0,
			bson.M{"$subtract": bson.A{
				*update.TotalRooms,
				bson.M{"$subtract": bson.A{"$total_rooms", "$available_rooms"}},
			}},
		}}
		pipeline := mongo.Pipeline{{{Key: "$set", Value: set}}}
		res, err := r.col.UpdateMany(ctx, filter, pipeline)
		if err != nil {
			return 0, err
		}
		return int(res.ModifiedCount), nil
	}

	if len(set) == 0 {
		return 0, nil
	}
	res, err := r.col.UpdateMany(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return int(res.ModifiedCount), nil
}

func (r *InventoryLedger) Seed(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, stay domainrange.DateRange, totalRooms int) (int, error) {
	models := make([]mongo.WriteModel, 0, stay.Nights())
	for _, date := range stay.Dates() {
		filter := bson.M{
			"room_type_id": string(roomTypeID),
			"date":         date.UnixMilli(),
		}
		insert := bson.M{"$setOnInsert": bson.M{
			"room_type_id":    string(roomTypeID),
			"date":            date.UnixMilli(),
			"total_rooms":     totalRooms,
			"available_rooms": totalRooms,
			"stop_sell":       false,
			"min_stay":        0,
		}}
		models = append(models, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(insert).SetUpsert(true))
	}
	res, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return int(res.UpsertedCount), nil
}

type inventoryDayDocument struct {
	RoomTypeID     string         `bson:"room_type_id"`
	Date           int64          `bson:"date"`
	TotalRooms     int            `bson:"total_rooms"`
	AvailableRooms int            `bson:"available_rooms"`
	PriceOverride  *moneyDocument `bson:"price_override"`
	StopSell       bool           `bson:"stop_sell"`
	MinStay        int            `bson:"min_stay"`
}

func (d inventoryDayDocument) toDomain() domaininventory.InventoryDay {
	day := domaininventory.InventoryDay{
		RoomTypeID:     domaincatalog.RoomTypeID(d.RoomTypeID),
		Date:           timestampToTime(d.Date),
		TotalRooms:     d.TotalRooms,
		AvailableRooms: d.AvailableRooms,
		StopSell:       d.StopSell,
		MinStay:        d.MinStay,
	}
	if d.PriceOverride != nil {
		override := d.PriceOverride.toDomain()
		day.PriceOverride = &override
	}
	return day
}

type moneyDocument struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

func newMoneyDocument(m money.Money) moneyDocument {
	return moneyDocument{Amount: m.Amount, Currency: m.Currency}
}

func (d moneyDocument) toDomain() money.Money {
	return money.Money{Amount: d.Amount, Currency: d.Currency}
}

func dateKeys(stay domainrange.DateRange) []int64 {
	dates := stay.Dates()
	keys := make([]int64, len(dates))
	for i, date := range dates {
		keys[i] = date.UnixMilli()
	}
	return keys
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domaininventory.Ledger = (*InventoryLedger)(nil)
