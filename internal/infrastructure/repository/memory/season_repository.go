package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/league-history/internal/domain/season"
)

type SeasonRepository struct {
	mu    sync.RWMutex
	items map[int]season.Season
}

func NewSeasonRepository(seasons []season.Season) *SeasonRepository {
	r := &SeasonRepository{items: make(map[int]season.Season, len(seasons))}
	for _, s := range seasons {
		r.items[s.Year] = s
	}
	return r
}

// ListSeasons returns the seasons sorted by year.
func (r *SeasonRepository) ListSeasons(_ context.Context) ([]season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Season, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Year < out[j].Year
	})
	return out, nil
}

func (r *SeasonRepository) ReplaceSeasons(_ context.Context, seasons []season.Season) error {
	items := make(map[int]season.Season, len(seasons))
	for _, s := range seasons {
		items[s.Year] = s
	}

	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
	return nil
}
