package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domaincatalog "innkeep/internal/domain/catalog"
	domainrates "innkeep/internal/domain/rates"
	domainrestrictions "innkeep/internal/domain/restrictions"
	domainrange "innkeep/internal/domain/shared/daterange"
)

type RestrictionRepository struct {
	col *mongo.Collection
}

func NewRestrictionRepository(db *mongo.Database) *RestrictionRepository {
	return &RestrictionRepository{col: db.Collection("rate_restrictions")}
}

func (r *RestrictionRepository) ActiveInRange(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, from, to time.Time) ([]*domainrestrictions.RateRestriction, error) {
	filter := bson.M{
		"active":       true,
		"room_type_id": string(roomTypeID),
		"start":        bson.M{"$lte": domainrange.Day(to).UnixMilli()},
		"end":          bson.M{"$gte": domainrange.Day(from).UnixMilli()},
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainrestrictions.RateRestriction
	for cursor.Next(ctx) {
		var doc restrictionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		restriction := doc.toDomain()
		out = append(out, &restriction)
	}
	return out, cursor.Err()
}

type restrictionDocument struct {
	ID         int64   `bson:"_id"`
	RoomTypeID string  `bson:"room_type_id"`
	RatePlanID *string `bson:"rate_plan_id"`
	Type       string  `bson:"type"`
	Value      int     `bson:"value"`
	Channel    string  `bson:"channel"`
	Start      int64   `bson:"start"`
	End        int64   `bson:"end"`
	DaysOfWeek []int   `bson:"days_of_week"`
	Active     bool    `bson:"active"`
}

func (d restrictionDocument) toDomain() domainrestrictions.RateRestriction {
	restriction := domainrestrictions.RateRestriction{
		ID:         d.ID,
		RoomTypeID: domaincatalog.RoomTypeID(d.RoomTypeID),
		Type:       domainrestrictions.RestrictionType(d.Type),
		Value:      d.Value,
		Channel:    d.Channel,
		Start:      timestampToTime(d.Start),
		End:        timestampToTime(d.End),
		DaysOfWeek: toWeekdays(d.DaysOfWeek),
		Active:     d.Active,
	}
	if d.RatePlanID != nil {
		id := domainrates.RatePlanID(*d.RatePlanID)
		restriction.RatePlanID = &id
	}
	return restriction
}

var _ domainrestrictions.Repository = (*RestrictionRepository)(nil)
