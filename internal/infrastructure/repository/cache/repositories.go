package cache

import (
	"context"

	"github.com/riskibarqy/league-history/internal/domain/owner"
	"github.com/riskibarqy/league-history/internal/domain/season"
	basecache "github.com/riskibarqy/league-history/internal/platform/cache"
)

const (
	keyPrefix  = "history:"
	seasonsKey = keyPrefix + "seasons"
	ownersKey  = keyPrefix + "owners"
)

// SeasonRepository reads through the cache and drops every history entry
// after a successful replace.
type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store
}

func NewSeasonRepository(next season.Repository, cache *basecache.Store) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

func (r *SeasonRepository) ListSeasons(ctx context.Context) ([]season.Season, error) {
	items, err := basecache.Load(ctx, r.cache, seasonsKey, func(ctx context.Context) ([]season.Season, error) {
		items, err := r.next.ListSeasons(ctx)
		if err != nil {
			return nil, err
		}
		return append([]season.Season(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]season.Season(nil), items...), nil
}

func (r *SeasonRepository) ReplaceSeasons(ctx context.Context, seasons []season.Season) error {
	if err := r.next.ReplaceSeasons(ctx, seasons); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, keyPrefix)
	return nil
}

type OwnerRepository struct {
	next  owner.Repository
	cache *basecache.Store
}

func NewOwnerRepository(next owner.Repository, cache *basecache.Store) *OwnerRepository {
	return &OwnerRepository{next: next, cache: cache}
}

func (r *OwnerRepository) ListOwners(ctx context.Context) ([]owner.Owner, error) {
	items, err := basecache.Load(ctx, r.cache, ownersKey, func(ctx context.Context) ([]owner.Owner, error) {
		items, err := r.next.ListOwners(ctx)
		if err != nil {
			return nil, err
		}
		return append([]owner.Owner(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]owner.Owner(nil), items...), nil
}

func (r *OwnerRepository) ReplaceOwners(ctx context.Context, owners []owner.Owner) error {
	if err := r.next.ReplaceOwners(ctx, owners); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, keyPrefix)
	return nil
}
