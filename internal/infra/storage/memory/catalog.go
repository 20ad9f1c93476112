package memory

import (
	"context"
	"sort"
	"sync"

	domaincatalog "innkeep/internal/domain/catalog"
)

// RoomTypeRepository keeps the room-type catalog in memory.
type RoomTypeRepository struct {
	mu    sync.RWMutex
	items map[domaincatalog.RoomTypeID]domaincatalog.RoomType
}

func NewRoomTypeRepository(seed ...domaincatalog.RoomType) *RoomTypeRepository {
	repo := &RoomTypeRepository{items: make(map[domaincatalog.RoomTypeID]domaincatalog.RoomType, len(seed))}
	for _, rt := range seed {
		repo.items[rt.ID] = rt
	}
	return repo
}

func (r *RoomTypeRepository) Put(rt domaincatalog.RoomType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rt.ID] = rt
}

// Save matches the persistent repository's upsert signature so the seed
// routine can treat both alike.
func (r *RoomTypeRepository) Save(ctx context.Context, rt domaincatalog.RoomType) error {
	r.Put(rt)
	return nil
}

func (r *RoomTypeRepository) ByID(ctx context.Context, id domaincatalog.RoomTypeID) (*domaincatalog.RoomType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.items[id]
	if !ok {
		return nil, domaincatalog.ErrRoomTypeNotFound
	}
	out := rt
	return &out, nil
}

func (r *RoomTypeRepository) Active(ctx context.Context) ([]*domaincatalog.RoomType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domaincatalog.RoomType, 0, len(r.items))
	for _, rt := range r.items {
		if !rt.Active {
			continue
		}
		copied := rt
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ domaincatalog.Repository = (*RoomTypeRepository)(nil)
