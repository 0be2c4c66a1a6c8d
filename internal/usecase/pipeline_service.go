package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/league-history/internal/domain/owner"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/platform/id"
	"github.com/riskibarqy/league-history/internal/platform/logging"
)

// Season sources reported on failures and metrics.
const (
	SourceCSV = "csv"
	SourceAPI = "api"
)

// SeasonFailure is one year that was dropped from a run.
type SeasonFailure struct {
	Year   int    `json:"year"`
	Source string `json:"source"`
	Err    error  `json:"-"`
}

func (f SeasonFailure) Error() string {
	if f.Year == 0 {
		return fmt.Sprintf("%s: %v", f.Source, f.Err)
	}
	return fmt.Sprintf("%s season %d: %v", f.Source, f.Year, f.Err)
}

func (f SeasonFailure) Unwrap() error {
	return f.Err
}

type RefreshInput struct {
	CSV []season.RawSeason
	API []season.RawSeason
	// LoadFailures are ingestion errors found before normalization; they are
	// copied onto the result.
	LoadFailures []SeasonFailure
	// CurrentYear decides owner activity. Zero means the clock's year.
	CurrentYear int
	// KeepStored merges the new data over the previously persisted seasons.
	KeepStored bool
}

type RefreshResult struct {
	RunID       string
	Seasons     []season.Season
	Owners      []owner.Owner
	FailedYears []SeasonFailure
	Duration    time.Duration
}

// TitleOverrides are operator corrections applied to raw seasons that do not
// carry their own.
type TitleOverrides struct {
	Champions map[int]string
	RunnersUp map[int]string
	Splits    map[int][]string
}

// PipelineMetrics receives run measurements. *metrics.Manager satisfies it.
type PipelineMetrics interface {
	RecordRun(err error, elapsed time.Duration)
	RecordSeasonNormalized(source string)
	RecordSeasonFailed(source string)
	SetCollectionSizes(seasons, owners int)
}

// CacheInvalidator drops derived views after new data is persisted.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type PipelineServiceConfig struct {
	SeasonRepo  season.Repository
	OwnerRepo   owner.Repository
	Normalizer  *season.Normalizer
	Aggregator  *owner.Aggregator
	Overrides   TitleOverrides
	IDs         id.Generator
	Metrics     PipelineMetrics
	Invalidator CacheInvalidator
	Logger      *logging.Logger
}

type PipelineService struct {
	seasonRepo  season.Repository
	ownerRepo   owner.Repository
	normalizer  *season.Normalizer
	aggregator  *owner.Aggregator
	overrides   TitleOverrides
	ids         id.Generator
	metrics     PipelineMetrics
	invalidator CacheInvalidator
	logger      *logging.Logger
	now         func() time.Time
}

func NewPipelineService(cfg PipelineServiceConfig) *PipelineService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	normalizer := cfg.Normalizer
	if normalizer == nil {
		normalizer = season.NewNormalizer(nil)
	}
	aggregator := cfg.Aggregator
	if aggregator == nil {
		aggregator = owner.NewAggregator(nil, owner.AggregateOptions{})
	}
	ids := cfg.IDs
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = noopPipelineMetrics{}
	}

	return &PipelineService{
		seasonRepo:  cfg.SeasonRepo,
		ownerRepo:   cfg.OwnerRepo,
		normalizer:  normalizer,
		aggregator:  aggregator,
		overrides:   cfg.Overrides,
		ids:         ids,
		metrics:     metrics,
		invalidator: cfg.Invalidator,
		logger:      logger.Named("pipeline"),
		now:         time.Now,
	}
}

// Refresh rebuilds the canonical dataset: stored seasons, then CSV seasons,
// then API seasons, each layer replacing the years it supplies. Owners are
// recomputed from the merged list and both collections are persisted.
// A bad season is skipped and reported; the run fails only when no season
// survives or persistence fails.
func (s *PipelineService) Refresh(ctx context.Context, input RefreshInput) (result RefreshResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Refresh")
	defer span.End()

	startedAt := s.now()
	defer func() {
		result.Duration = s.now().Sub(startedAt)
		s.metrics.RecordRun(err, result.Duration)
	}()

	if s.seasonRepo == nil || s.ownerRepo == nil {
		return RefreshResult{}, fmt.Errorf("%w: season and owner repositories are required", ErrInvalidInput)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return RefreshResult{}, fmt.Errorf("generate run id: %w", err)
	}
	logger := s.logger.With("run_id", runID)
	result.RunID = runID
	result.FailedYears = append(result.FailedYears, input.LoadFailures...)
	for _, failure := range input.LoadFailures {
		s.metrics.RecordSeasonFailed(failure.Source)
	}

	var merged []season.Season
	if input.KeepStored {
		stored, err := s.seasonRepo.ListSeasons(ctx)
		if err != nil {
			return result, fmt.Errorf("list stored seasons: %w", err)
		}
		merged = stored
	}
	storedCount := len(merged)

	csvByYear := s.normalizeAll(ctx, logger, SourceCSV, input.CSV, &result.FailedYears)
	merged = season.Merge(merged, csvByYear)

	apiByYear := s.normalizeAll(ctx, logger, SourceAPI, input.API, &result.FailedYears)
	merged = season.Merge(merged, apiByYear)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if len(merged) == 0 {
		return result, ErrNoSeasons
	}

	currentYear := input.CurrentYear
	if currentYear <= 0 {
		currentYear = s.now().Year()
	}
	owners, err := s.aggregator.Aggregate(merged, currentYear)
	if err != nil {
		return result, fmt.Errorf("aggregate owners: %w", err)
	}

	if err := s.seasonRepo.ReplaceSeasons(ctx, merged); err != nil {
		return result, fmt.Errorf("replace seasons: %w", err)
	}
	if err := s.ownerRepo.ReplaceOwners(ctx, owners); err != nil {
		return result, fmt.Errorf("replace owners: %w", err)
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}

	s.metrics.SetCollectionSizes(len(merged), len(owners))
	sort.SliceStable(result.FailedYears, func(i, j int) bool {
		return result.FailedYears[i].Year < result.FailedYears[j].Year
	})
	result.Seasons = merged
	result.Owners = owners

	logger.InfoContext(ctx, "history refreshed",
		"stored_seasons", storedCount,
		"csv_seasons", len(csvByYear),
		"api_seasons", len(apiByYear),
		"seasons", len(merged),
		"owners", len(owners),
		"failed_years", len(result.FailedYears),
	)
	return result, nil
}

func (s *PipelineService) normalizeAll(ctx context.Context, logger *logging.Logger, source string, raws []season.RawSeason, failures *[]SeasonFailure) map[int]season.Season {
	out := make(map[int]season.Season, len(raws))
	for _, raw := range raws {
		if ctx.Err() != nil {
			return out
		}

		normalized, err := s.normalize(ctx, logger, s.applyOverrides(raw))
		if err != nil {
			logger.WarnContext(ctx, "season skipped", "source", source, "year", raw.Year, "error", err)
			*failures = append(*failures, SeasonFailure{Year: raw.Year, Source: source, Err: err})
			s.metrics.RecordSeasonFailed(source)
			continue
		}
		if _, dup := out[raw.Year]; dup {
			logger.WarnContext(ctx, "duplicate season in source, keeping the later one", "source", source, "year", raw.Year)
		}
		out[raw.Year] = normalized
		s.metrics.RecordSeasonNormalized(source)
	}
	return out
}

// normalize falls back to rank-based title resolution when a split
// championship names too many owners.
func (s *PipelineService) normalize(ctx context.Context, logger *logging.Logger, raw season.RawSeason) (season.Season, error) {
	normalized, err := s.normalizer.Normalize(raw)
	if err == nil || !errors.Is(err, season.ErrInvalidSplitChampions) {
		return normalized, err
	}

	logger.WarnContext(ctx, "invalid split championship, resolving champion by rank",
		"year", raw.Year,
		"split_champions", raw.Overrides.SplitChampions,
	)
	raw.Overrides.SplitChampions = nil
	return s.normalizer.Normalize(raw)
}

func (s *PipelineService) applyOverrides(raw season.RawSeason) season.RawSeason {
	if raw.Overrides.ChampionOverride == "" {
		raw.Overrides.ChampionOverride = s.overrides.Champions[raw.Year]
	}
	if raw.Overrides.RunnerUpOverride == "" {
		raw.Overrides.RunnerUpOverride = s.overrides.RunnersUp[raw.Year]
	}
	if len(raw.Overrides.SplitChampions) == 0 {
		if split := s.overrides.Splits[raw.Year]; len(split) > 0 {
			raw.Overrides.SplitChampions = append([]string(nil), split...)
		}
	}
	return raw
}

type noopPipelineMetrics struct{}

func (noopPipelineMetrics) RecordRun(error, time.Duration) {}
func (noopPipelineMetrics) RecordSeasonNormalized(string) {}
func (noopPipelineMetrics) RecordSeasonFailed(string) {}
func (noopPipelineMetrics) SetCollectionSizes(int, int) {}
