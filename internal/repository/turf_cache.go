package repository

import (
	"context"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"

	"turfbooking/internal/db"
)

// CachedTurfRepository is a read-through LRU layer over TurfRepository. A
// stale turf config can serve an availability query harmlessly because every
// booking still passes the ledger's transactional re-check; admin writes
// invalidate the entry.
type CachedTurfRepository struct {
	inner *TurfRepository
	cache *lru.Cache[int, *db.Turf]
}

func NewCachedTurfRepository(inner *TurfRepository, size int) (*CachedTurfRepository, error) {
	cache, err := lru.New[int, *db.Turf](size)
	if err != nil {
		return nil, err
	}
	return &CachedTurfRepository{inner: inner, cache: cache}, nil
}

func (r *CachedTurfRepository) GetTurf(ctx context.Context, id int) (*db.Turf, error) {
	if turf, ok := r.cache.Get(id); ok {
		return turf, nil
	}
	turf, err := r.inner.GetTurf(ctx, id)
	if err != nil {
		return nil, err
	}
	if turf != nil {
		r.cache.Add(id, turf)
	}
	return turf, nil
}

func (r *CachedTurfRepository) Invalidate(id int) {
	if r.cache.Remove(id) {
		log.Printf("Turf %d evicted from config cache", id)
	}
}
