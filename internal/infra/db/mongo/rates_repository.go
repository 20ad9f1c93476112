package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domaincatalog "innkeep/internal/domain/catalog"
	domainrates "innkeep/internal/domain/rates"
	domainrange "innkeep/internal/domain/shared/daterange"
)

type RatePlanRepository struct {
	col *mongo.Collection
}

func NewRatePlanRepository(db *mongo.Database) *RatePlanRepository {
	return &RatePlanRepository{col: db.Collection("rate_plans")}
}

func (r *RatePlanRepository) ByID(ctx context.Context, id domainrates.RatePlanID) (*domainrates.RatePlan, error) {
	var doc ratePlanDocument
	err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domainrates.ErrRatePlanNotFound
	}
	if err != nil {
		return nil, err
	}
	plan := doc.toDomain()
	return &plan, nil
}

func (r *RatePlanRepository) ActiveForRoomType(ctx context.Context, roomTypeID domaincatalog.RoomTypeID) ([]*domainrates.RatePlan, error) {
	filter := bson.M{
		"active": true,
		"$or": bson.A{
			bson.M{"room_type_id": nil},
			bson.M{"room_type_id": string(roomTypeID)},
		},
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainrates.RatePlan
	for cursor.Next(ctx) {
		var doc ratePlanDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		plan := doc.toDomain()
		out = append(out, &plan)
	}
	return out, cursor.Err()
}

type ratePlanDocument struct {
	ID           string           `bson:"_id"`
	Name         string           `bson:"name"`
	RoomTypeID   *string          `bson:"room_type_id"`
	Modifier     modifierDocument `bson:"modifier"`
	MinStay      int              `bson:"min_stay"`
	MaxStay      int              `bson:"max_stay"`
	GuestSegment string           `bson:"guest_segment"`
	IsDefault    bool             `bson:"is_default"`
	IsRefundable bool             `bson:"is_refundable"`
	ValidFrom    *int64           `bson:"valid_from"`
	ValidUntil   *int64           `bson:"valid_until"`
	Active       bool             `bson:"active"`
}

func (d ratePlanDocument) toDomain() domainrates.RatePlan {
	plan := domainrates.RatePlan{
		ID:           domainrates.RatePlanID(d.ID),
		Name:         d.Name,
		Modifier:     d.Modifier.toDomain(),
		MinStay:      d.MinStay,
		MaxStay:      d.MaxStay,
		GuestSegment: d.GuestSegment,
		IsDefault:    d.IsDefault,
		IsRefundable: d.IsRefundable,
		Active:       d.Active,
	}
	if d.RoomTypeID != nil {
		id := domaincatalog.RoomTypeID(*d.RoomTypeID)
		plan.RoomTypeID = &id
	}
	if d.ValidFrom != nil {
		from := timestampToTime(*d.ValidFrom)
		plan.ValidFrom = &from
	}
	if d.ValidUntil != nil {
		until := timestampToTime(*d.ValidUntil)
		plan.ValidUntil = &until
	}
	return plan
}

var _ domainrates.RatePlanRepository = (*RatePlanRepository)(nil)

type SeasonalRateRepository struct {
	col *mongo.Collection
}

func NewSeasonalRateRepository(db *mongo.Database) *SeasonalRateRepository {
	return &SeasonalRateRepository{col: db.Collection("seasonal_rates")}
}

func (r *SeasonalRateRepository) ActiveInRange(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, from, to time.Time) ([]*domainrates.SeasonalRate, error) {
	filter := bson.M{
		"active": true,
		"$or": bson.A{
			bson.M{"room_type_id": nil},
			bson.M{"room_type_id": string(roomTypeID)},
		},
		"start": bson.M{"$lte": domainrange.Day(to).UnixMilli()},
		"end":   bson.M{"$gte": domainrange.Day(from).UnixMilli()},
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainrates.SeasonalRate
	for cursor.Next(ctx) {
		var doc seasonalRateDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rate := doc.toDomain()
		out = append(out, &rate)
	}
	return out, cursor.Err()
}

type seasonalRateDocument struct {
	ID         int64            `bson:"_id"`
	Name       string           `bson:"name"`
	RoomTypeID *string          `bson:"room_type_id"`
	RatePlanID *string          `bson:"rate_plan_id"`
	Start      int64            `bson:"start"`
	End        int64            `bson:"end"`
	Modifier   modifierDocument `bson:"modifier"`
	DaysOfWeek []int            `bson:"days_of_week"`
	Priority   int              `bson:"priority"`
	Active     bool             `bson:"active"`
}

func (d seasonalRateDocument) toDomain() domainrates.SeasonalRate {
	rate := domainrates.SeasonalRate{
		ID:         d.ID,
		Name:       d.Name,
		Start:      timestampToTime(d.Start),
		End:        timestampToTime(d.End),
		Modifier:   d.Modifier.toDomain(),
		DaysOfWeek: toWeekdays(d.DaysOfWeek),
		Priority:   d.Priority,
		Active:     d.Active,
	}
	if d.RoomTypeID != nil {
		id := domaincatalog.RoomTypeID(*d.RoomTypeID)
		rate.RoomTypeID = &id
	}
	if d.RatePlanID != nil {
		id := domainrates.RatePlanID(*d.RatePlanID)
		rate.RatePlanID = &id
	}
	return rate
}

var _ domainrates.SeasonalRateRepository = (*SeasonalRateRepository)(nil)

// DynamicRuleRepository reads the three dynamic-rule collections.
type DynamicRuleRepository struct {
	occupancy *mongo.Collection
	dow       *mongo.Collection
	events    *mongo.Collection
}

func NewDynamicRuleRepository(db *mongo.Database) *DynamicRuleRepository {
	return &DynamicRuleRepository{
		occupancy: db.Collection("occupancy_rules"),
		dow:       db.Collection("dow_rules"),
		events:    db.Collection("event_overrides"),
	}
}

func (r *DynamicRuleRepository) ActiveOccupancyRules(ctx context.Context, roomTypeID domaincatalog.RoomTypeID) ([]*domainrates.OccupancyRule, error) {
	cursor, err := r.occupancy.Find(ctx, scopedActiveFilter(roomTypeID))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainrates.OccupancyRule
	for cursor.Next(ctx) {
		var doc occupancyRuleDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rule := doc.toDomain()
		out = append(out, &rule)
	}
	return out, cursor.Err()
}

func (r *DynamicRuleRepository) ActiveDowRules(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, day time.Weekday) ([]*domainrates.DowRule, error) {
	filter := scopedActiveFilter(roomTypeID)
	filter["weekday"] = int(day)
	cursor, err := r.dow.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainrates.DowRule
	for cursor.Next(ctx) {
		var doc dowRuleDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rule := doc.toDomain()
		out = append(out, &rule)
	}
	return out, cursor.Err()
}

func (r *DynamicRuleRepository) ActiveEventOverrides(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, date time.Time) ([]*domainrates.EventOverride, error) {
	day := domainrange.Day(date).UnixMilli()
	filter := scopedActiveFilter(roomTypeID)
	filter["start"] = bson.M{"$lte": day}
	filter["end"] = bson.M{"$gte": day}
	cursor, err := r.events.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainrates.EventOverride
	for cursor.Next(ctx) {
		var doc eventOverrideDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		event := doc.toDomain()
		out = append(out, &event)
	}
	return out, cursor.Err()
}

type occupancyRuleDocument struct {
	ID               int64            `bson:"_id"`
	RoomTypeID       *string          `bson:"room_type_id"`
	ThresholdPercent float64          `bson:"threshold_percent"`
	Modifier         modifierDocument `bson:"modifier"`
	Priority         int              `bson:"priority"`
	Active           bool             `bson:"active"`
}

func (d occupancyRuleDocument) toDomain() domainrates.OccupancyRule {
	rule := domainrates.OccupancyRule{
		ID:               d.ID,
		ThresholdPercent: d.ThresholdPercent,
		Modifier:         d.Modifier.toDomain(),
		Priority:         d.Priority,
		Active:           d.Active,
	}
	if d.RoomTypeID != nil {
		id := domaincatalog.RoomTypeID(*d.RoomTypeID)
		rule.RoomTypeID = &id
	}
	return rule
}

type dowRuleDocument struct {
	ID         int64            `bson:"_id"`
	RoomTypeID *string          `bson:"room_type_id"`
	Weekday    int              `bson:"weekday"`
	Modifier   modifierDocument `bson:"modifier"`
	Active     bool             `bson:"active"`
}

func (d dowRuleDocument) toDomain() domainrates.DowRule {
	rule := domainrates.DowRule{
		ID:       d.ID,
		Weekday:  time.Weekday(d.Weekday),
		Modifier: d.Modifier.toDomain(),
		Active:   d.Active,
	}
	if d.RoomTypeID != nil {
		id := domaincatalog.RoomTypeID(*d.RoomTypeID)
		rule.RoomTypeID = &id
	}
	return rule
}

type eventOverrideDocument struct {
	ID         int64            `bson:"_id"`
	Name       string           `bson:"name"`
	RoomTypeID *string          `bson:"room_type_id"`
	Start      int64            `bson:"start"`
	End        int64            `bson:"end"`
	Modifier   modifierDocument `bson:"modifier"`
	Priority   int              `bson:"priority"`
	Active     bool             `bson:"active"`
}

func (d eventOverrideDocument) toDomain() domainrates.EventOverride {
	event := domainrates.EventOverride{
		ID:       d.ID,
		Name:     d.Name,
		Start:    timestampToTime(d.Start),
		End:      timestampToTime(d.End),
		Modifier: d.Modifier.toDomain(),
		Priority: d.Priority,
		Active:   d.Active,
	}
	if d.RoomTypeID != nil {
		id := domaincatalog.RoomTypeID(*d.RoomTypeID)
		event.RoomTypeID = &id
	}
	return event
}

var _ domainrates.DynamicRuleRepository = (*DynamicRuleRepository)(nil)

type modifierDocument struct {
	Kind  string  `bson:"kind"`
	Value float64 `bson:"value"`
}

func (d modifierDocument) toDomain() domainrates.Modifier {
	return domainrates.Modifier{Kind: domainrates.ModifierKind(d.Kind), Value: d.Value}
}

func scopedActiveFilter(roomTypeID domaincatalog.RoomTypeID) bson.M {
	return bson.M{
		"active": true,
		"$or": bson.A{
			bson.M{"room_type_id": nil},
			bson.M{"room_type_id": string(roomTypeID)},
		},
	}
}

func toWeekdays(days []int) []time.Weekday {
	if len(days) == 0 {
		return nil
	}
	out := make([]time.Weekday, len(days))
	for i, d := range days {
		out[i] = time.Weekday(d)
	}
	return out
}
