package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/w-h-a/supportdesk/storer"
)

// shard holds one owner's records in insertion order.
type shard struct {
	records []storer.Record
	mtx     sync.RWMutex
}

type memoryStorer struct {
	options storer.Options
	shards  sync.Map
}

func (s *memoryStorer) Store(ctx context.Context, records []storer.Record) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", storer.ErrStoreWrite, err)
	}

	if len(records) == 0 {
		return 0, nil
	}

	if err := storer.Validate(records, s.options.Dimension); err != nil {
		return 0, err
	}

	byOwner := map[string][]storer.Record{}
	for _, rec := range records {
		cpy := rec
		cpy.Vector = slices.Clone(rec.Vector)
		cpy.Metadata = storer.CloneMetadata(rec.Metadata)
		byOwner[rec.OwnerId] = append(byOwner[rec.OwnerId], cpy)
	}

	owners := make([]string, 0, len(byOwner))
	for owner := range byOwner {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	// lock every touched shard before writing so readers never see half a batch
	locked := make([]*shard, 0, len(owners))
	for _, owner := range owners {
		sh := s.shard(owner)
		sh.mtx.Lock()
		locked = append(locked, sh)
	}

	for i, owner := range owners {
		locked[i].records = append(locked[i].records, byOwner[owner]...)
	}

	for _, sh := range locked {
		sh.mtx.Unlock()
	}

	return len(records), nil
}

func (s *memoryStorer) Search(ctx context.Context, ownerId string, vector []float32, limit int) ([]storer.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", storer.ErrStoreQuery, err)
	}

	limit, err := storer.ClampLimit(limit, s.options.MaxLimit)
	if err != nil {
		return nil, err
	}

	if len(vector) != s.options.Dimension {
		return nil, fmt.Errorf("%w: %w (got %d want %d)", storer.ErrStoreQuery, storer.ErrDimensionMismatch, len(vector), s.options.Dimension)
	}

	value, ok := s.shards.Load(ownerId)
	if !ok {
		return nil, nil
	}
	sh := value.(*shard)

	sh.mtx.RLock()
	candidates := make([]storer.Match, 0, len(sh.records))
	for _, rec := range sh.records {
		candidates = append(candidates, storer.Match{
			Record:   rec,
			Distance: storer.CosineDistance(vector, rec.Vector),
		})
	}
	sh.mtx.RUnlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Distance < candidates[j].Distance
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	for i := range candidates {
		candidates[i].Record.Vector = slices.Clone(candidates[i].Record.Vector)
		candidates[i].Record.Metadata = storer.CloneMetadata(candidates[i].Record.Metadata)
	}

	return candidates, nil
}

func (s *memoryStorer) Dimension() int {
	return s.options.Dimension
}

func (s *memoryStorer) Close() error {
	return nil
}

func (s *memoryStorer) shard(ownerId string) *shard {
	value, _ := s.shards.LoadOrStore(ownerId, &shard{})
	return value.(*shard)
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	if options.Dimension <= 0 {
		panic("dimension must be greater than zero")
	}

	s := &memoryStorer{
		options: options,
	}

	return s
}
