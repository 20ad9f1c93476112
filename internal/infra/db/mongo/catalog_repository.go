package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincatalog "innkeep/internal/domain/catalog"
)

type RoomTypeRepository struct {
	col *mongo.Collection
}

func NewRoomTypeRepository(db *mongo.Database) *RoomTypeRepository {
	return &RoomTypeRepository{col: db.Collection("room_types")}
}

func (r *RoomTypeRepository) ByID(ctx context.Context, id domaincatalog.RoomTypeID) (*domaincatalog.RoomType, error) {
	var doc roomTypeDocument
	err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domaincatalog.ErrRoomTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	rt := doc.toDomain()
	return &rt, nil
}

func (r *RoomTypeRepository) Active(ctx context.Context) ([]*domaincatalog.RoomType, error) {
	opts := options.Find().SetSort(bson.M{"_id": 1})
	cursor, err := r.col.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domaincatalog.RoomType
	for cursor.Next(ctx) {
		var doc roomTypeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rt := doc.toDomain()
		out = append(out, &rt)
	}
	return out, cursor.Err()
}

// Save upserts a room type; the seed routine uses it.
func (r *RoomTypeRepository) Save(ctx context.Context, rt domaincatalog.RoomType) error {
	doc := newRoomTypeDocument(rt)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

type roomTypeDocument struct {
	ID             string        `bson:"_id"`
	Name           string        `bson:"name"`
	BaseRate       moneyDocument `bson:"base_rate"`
	BaseOccupancy  int           `bson:"base_occupancy"`
	MaxOccupancy   int           `bson:"max_occupancy"`
	ExtraAdultRate moneyDocument `bson:"extra_adult_rate"`
	ExtraChildRate moneyDocument `bson:"extra_child_rate"`
	TotalRooms     int           `bson:"total_rooms"`
	Active         bool          `bson:"active"`
}

func newRoomTypeDocument(rt domaincatalog.RoomType) roomTypeDocument {
	return roomTypeDocument{
		ID:             string(rt.ID),
		Name:           rt.Name,
		BaseRate:       newMoneyDocument(rt.BaseRate),
		BaseOccupancy:  rt.BaseOccupancy,
		MaxOccupancy:   rt.MaxOccupancy,
		ExtraAdultRate: newMoneyDocument(rt.ExtraAdultRate),
		ExtraChildRate: newMoneyDocument(rt.ExtraChildRate),
		TotalRooms:     rt.TotalRooms,
		Active:         rt.Active,
	}
}

func (d roomTypeDocument) toDomain() domaincatalog.RoomType {
	return domaincatalog.RoomType{
		ID:             domaincatalog.RoomTypeID(d.ID),
		Name:           d.Name,
		BaseRate:       d.BaseRate.toDomain(),
		BaseOccupancy:  d.BaseOccupancy,
		MaxOccupancy:   d.MaxOccupancy,
		ExtraAdultRate: d.ExtraAdultRate.toDomain(),
		ExtraChildRate: d.ExtraChildRate.toDomain(),
		TotalRooms:     d.TotalRooms,
		Active:         d.Active,
	}
}

var _ domaincatalog.Repository = (*RoomTypeRepository)(nil)
