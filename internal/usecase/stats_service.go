package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/league-history/internal/domain/identity"
	"github.com/riskibarqy/league-history/internal/domain/owner"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/domain/stats"
	"github.com/riskibarqy/league-history/internal/platform/cache"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

const (
	statsCachePrefix = "stats:"
	datasetCacheKey  = statsCachePrefix + "dataset"
)

// Dataset is the persisted history plus the head-to-head index derived from it.
type Dataset struct {
	Seasons    []season.Season
	Owners     []owner.Owner
	HeadToHead []stats.HeadToHeadRecord
}

// Snapshot bundles every derived view for one consistent dataset.
type Snapshot struct {
	Leaderboard []stats.LeaderboardRow   `json:"leaderboard"`
	Records     []stats.Record           `json:"records"`
	Rivalries   []stats.Rivalry          `json:"rivalries"`
	HallOfFame  stats.HallOfFame         `json:"hallOfFame"`
	AllTime     stats.AllTimeStats       `json:"allTime"`
	Highlights  []stats.SeasonHighlights `json:"highlights"`
}

type StatsService struct {
	seasonRepo season.Repository
	ownerRepo  owner.Repository
	cache      *cache.Store
	criteria   stats.HallOfFameCriteria
	logger     *logging.Logger
}

func NewStatsService(seasonRepo season.Repository, ownerRepo owner.Repository, store *cache.Store, criteria stats.HallOfFameCriteria, logger *logging.Logger) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	if store == nil {
		store = cache.NewStore(0)
	}
	return &StatsService{
		seasonRepo: seasonRepo,
		ownerRepo:  ownerRepo,
		cache:      store,
		criteria:   criteria,
		logger:     logger.Named("stats"),
	}
}

func (s *StatsService) Leaderboard(ctx context.Context) ([]stats.LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Leaderboard")
	defer span.End()

	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Leaderboard(ds.Owners), nil
}

func (s *StatsService) Records(ctx context.Context) ([]stats.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Records")
	defer span.End()

	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Records(ds.Owners, ds.Seasons), nil
}

// HeadToHead returns the series between a and b, oriented so Owner1 is a.
// Aliases resolve the same way they do during ingestion.
func (s *StatsService) HeadToHead(ctx context.Context, a, b string) (stats.HeadToHeadRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.HeadToHead")
	defer span.End()

	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return stats.HeadToHeadRecord{}, fmt.Errorf("%w: both owners are required", ErrInvalidInput)
	}
	if identity.Slugify(a) == identity.Slugify(b) {
		return stats.HeadToHeadRecord{}, fmt.Errorf("%w: owners must differ", ErrInvalidInput)
	}

	ds, err := s.Dataset(ctx)
	if err != nil {
		return stats.HeadToHeadRecord{}, err
	}
	rec, ok := stats.Between(ds.HeadToHead, s.ownerName(ds, a), s.ownerName(ds, b))
	if !ok {
		return stats.HeadToHeadRecord{}, fmt.Errorf("%w: no games between %s and %s", ErrNotFound, a, b)
	}
	return rec, nil
}

// Rivalries returns the highest scoring rivalries; limit <= 0 returns all.
func (s *StatsService) Rivalries(ctx context.Context, limit int) ([]stats.Rivalry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Rivalries")
	defer span.End()

	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return stats.TopRivalries(stats.Rivalries(ds.HeadToHead), limit), nil
}

func (s *StatsService) HallOfFame(ctx context.Context) (stats.HallOfFame, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.HallOfFame")
	defer span.End()

	ds, err := s.Dataset(ctx)
	if err != nil {
		return stats.HallOfFame{}, err
	}
	return stats.HallOfFameFor(ds.Owners, s.criteria), nil
}

func (s *StatsService) AllTime(ctx context.Context) (stats.AllTimeStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.AllTime")
	defer span.End()

	ds, err := s.Dataset(ctx)
	if err != nil {
		return stats.AllTimeStats{}, err
	}
	return stats.AllTime(ds.Owners, ds.Seasons), nil
}

func (s *StatsService) SeasonHighlights(ctx context.Context, year int) (stats.SeasonHighlights, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.SeasonHighlights")
	defer span.End()

	if year <= 0 {
		return stats.SeasonHighlights{}, fmt.Errorf("%w: year must be positive", ErrInvalidInput)
	}

	ds, err := s.Dataset(ctx)
	if err != nil {
		return stats.SeasonHighlights{}, err
	}
	for _, item := range ds.Seasons {
		if item.Year == year {
			return stats.Highlights(item), nil
		}
	}
	return stats.SeasonHighlights{}, fmt.Errorf("%w: season %d", ErrNotFound, year)
}

// Owner looks an owner up by id or by any name that slugifies to it.
func (s *StatsService) Owner(ctx context.Context, ownerID string) (owner.Owner, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Owner")
	defer span.End()

	key := identity.Slugify(ownerID)
	if key == "" {
		return owner.Owner{}, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}

	ds, err := s.Dataset(ctx)
	if err != nil {
		return owner.Owner{}, err
	}
	for _, item := range ds.Owners {
		if item.ID == key {
			return item, nil
		}
	}
	return owner.Owner{}, fmt.Errorf("%w: owner %s", ErrNotFound, ownerID)
}

// Snapshot computes every view concurrently over the same cached dataset.
func (s *StatsService) Snapshot(ctx context.Context) (Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Snapshot")
	defer span.End()

	ds, err := s.Dataset(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	var out Snapshot
	var wg conc.WaitGroup
	wg.Go(func() { out.Leaderboard = stats.Leaderboard(ds.Owners) })
	wg.Go(func() { out.Records = stats.Records(ds.Owners, ds.Seasons) })
	wg.Go(func() { out.Rivalries = stats.Rivalries(ds.HeadToHead) })
	wg.Go(func() { out.HallOfFame = stats.HallOfFameFor(ds.Owners, s.criteria) })
	wg.Go(func() { out.AllTime = stats.AllTime(ds.Owners, ds.Seasons) })
	wg.Go(func() {
		highlights := make([]stats.SeasonHighlights, 0, len(ds.Seasons))
		for _, item := range ds.Seasons {
			highlights = append(highlights, stats.Highlights(item))
		}
		out.Highlights = highlights
	})
	wg.Wait()

	return out, nil
}

// Dataset returns the cached persisted history, loading it once per cache
// lifetime no matter how many callers ask concurrently.
func (s *StatsService) Dataset(ctx context.Context) (Dataset, error) {
	return cache.Load(ctx, s.cache, datasetCacheKey, s.loadDataset)
}

// Invalidate drops every cached view; the next read reloads from storage.
func (s *StatsService) Invalidate(ctx context.Context) {
	s.cache.DeletePrefix(ctx, statsCachePrefix)
	s.logger.DebugContext(ctx, "stats cache invalidated")
}

func (s *StatsService) CacheStats() cache.Stats {
	return s.cache.Stats()
}

func (s *StatsService) loadDataset(ctx context.Context) (Dataset, error) {
	if s.seasonRepo == nil || s.ownerRepo == nil {
		return Dataset{}, fmt.Errorf("%w: season and owner repositories are required", ErrInvalidInput)
	}

	seasons, err := s.seasonRepo.ListSeasons(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("list seasons: %w", err)
	}
	owners, err := s.ownerRepo.ListOwners(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("list owners: %w", err)
	}

	s.logger.DebugContext(ctx, "stats dataset loaded", "seasons", len(seasons), "owners", len(owners))
	return Dataset{
		Seasons:    seasons,
		Owners:     owners,
		HeadToHead: stats.HeadToHead(seasons),
	}, nil
}

// ownerName maps an id or alias onto the stored owner name when one matches.
func (s *StatsService) ownerName(ds Dataset, name string) string {
	key := identity.Slugify(name)
	for _, item := range ds.Owners {
		if item.ID == key {
			return item.Name
		}
	}
	return name
}
