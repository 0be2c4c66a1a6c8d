package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/league-history/external/csvhistory"
	"github.com/riskibarqy/league-history/external/espn"
	"github.com/riskibarqy/league-history/internal/config"
	"github.com/riskibarqy/league-history/internal/domain/identity"
	"github.com/riskibarqy/league-history/internal/domain/owner"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/domain/stats"
	cacherepo "github.com/riskibarqy/league-history/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/league-history/internal/infrastructure/repository/file"
	"github.com/riskibarqy/league-history/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-history/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/league-history/internal/platform/cache"
	"github.com/riskibarqy/league-history/internal/platform/id"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"github.com/riskibarqy/league-history/internal/platform/metrics"
	"github.com/riskibarqy/league-history/internal/platform/resilience"
	"github.com/riskibarqy/league-history/internal/usecase"
)

// App holds the wired pipeline for one process.
type App struct {
	Config   config.Config
	Logger   *logging.Logger
	Pipeline *usecase.PipelineService
	Stats    *usecase.StatsService
	Metrics  *metrics.Manager

	sources sourceLoader
	closers []func() error
}

// Bootstrap wires storage, ingestion and services from cfg. Call Close when
// done.
func Bootstrap(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	mappings, err := config.LoadOwnerMappings(cfg.OwnerMappingsPath)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewManager(metrics.WithConstLabels(map[string]string{"env": cfg.AppEnv})),
	}

	store := cache.NewStore(cfg.CacheTTL)
	seasonRepo, ownerRepo, err := a.openRepositories(ctx, store)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	resolver := identity.NewResolver(mappings.ResolverOverrides())
	a.Stats = usecase.NewStatsService(seasonRepo, ownerRepo, store, stats.DefaultHallOfFameCriteria(), logger)
	a.Pipeline = usecase.NewPipelineService(usecase.PipelineServiceConfig{
		SeasonRepo: seasonRepo,
		OwnerRepo:  ownerRepo,
		Normalizer: season.NewNormalizer(resolver),
		Aggregator: owner.NewAggregator(resolver, owner.AggregateOptions{
			SplitChampionships: mappings.SplitChampionshipsByYear(),
			CurrentOwners:      mappings.CurrentOwners,
		}),
		Overrides: usecase.TitleOverrides{
			Champions: mappings.ChampionOverridesByYear(),
			RunnersUp: mappings.RunnerUpOverridesByYear(),
			Splits:    mappings.SplitChampionshipsByYear(),
		},
		IDs:         id.NewUUIDGenerator(),
		Metrics:     a.Metrics,
		Invalidator: a.Stats,
		Logger:      logger,
	})

	playoffTeams := cfg.PlayoffTeamCount
	if playoffTeams == 0 {
		playoffTeams = mappings.PlayoffTeamCount
	}
	a.sources = sourceLoader{
		csvPath: cfg.CSVPath,
		csv: csvhistory.NewParser(csvhistory.Options{
			MinYear:          cfg.CSVMinYear,
			MaxYear:          cfg.CSVMaxYear,
			PlayoffTeamCount: playoffTeams,
			Logger:           logger.Named("csv"),
		}),
		espnDir: cfg.ESPNPayloadDir,
		api: espn.NewLoader(espn.LoaderConfig{
			Dir:     cfg.ESPNPayloadDir,
			Workers: cfg.LoaderWorkers,
			Mapper: espn.NewMapper(espn.MapperOptions{
				ByDisplayName:    mappings.ByDisplayName,
				NameFixes:        mappings.NameFixes,
				PointsMultiplier: cfg.PointsMultiplier,
			}),
			Logger: logger.Named("espn"),
		}),
		espnYears: cfg.ESPNYears,
	}

	logger.InfoContext(ctx, "app bootstrapped",
		"storage", cfg.StorageDriver,
		"csv_path", cfg.CSVPath,
		"espn_dir", cfg.ESPNPayloadDir,
		"resolver_aliases", len(mappings.ResolverOverrides()),
	)
	return a, nil
}

// Refresh reads every configured source and runs the pipeline over them.
func (a *App) Refresh(ctx context.Context) (usecase.RefreshResult, error) {
	csvOut, apiOut := a.sources.load(ctx)

	failures := make([]usecase.SeasonFailure, 0, len(csvOut.failures)+len(apiOut.failures))
	failures = append(failures, csvOut.failures...)
	failures = append(failures, apiOut.failures...)

	return a.Pipeline.Refresh(ctx, usecase.RefreshInput{
		CSV:          csvOut.seasons,
		API:          apiOut.seasons,
		LoadFailures: failures,
		CurrentYear:  a.Config.CurrentYear,
		KeepStored:   a.Config.KeepStored,
	})
}

// PushMetrics publishes the run metrics when a Pushgateway is configured.
func (a *App) PushMetrics(ctx context.Context) error {
	if a.Config.MetricsPushURL == "" {
		return nil
	}
	cacheStats := a.Stats.CacheStats()
	a.Metrics.SetCacheStats(cacheStats.Hits, cacheStats.Misses)
	return a.Metrics.Push(ctx, a.Config.MetricsPushURL, a.Config.MetricsJobName)
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openRepositories(ctx context.Context, store *cache.Store) (season.Repository, owner.Repository, error) {
	switch a.Config.StorageDriver {
	case config.StorageMemory:
		return memory.NewSeasonRepository(nil), memory.NewOwnerRepository(nil), nil
	case config.StorageFile:
		fs, err := file.NewStore(a.Config.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, fs, nil
	case config.StoragePostgres:
		db, err := OpenDatabase(ctx, a.Config, a.Logger)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, db.Close)

		breaker := resilience.NewCircuitBreakerFromConfig(resilience.CircuitBreakerConfig{
			Enabled:          a.Config.DBCircuitEnabled,
			FailureThreshold: a.Config.DBCircuitFailureCount,
			OpenTimeout:      a.Config.DBCircuitOpenTimeout,
			HalfOpenMaxReq:   a.Config.DBCircuitHalfOpenMaxReq,
		})
		seasons := cacherepo.NewSeasonRepository(postgres.NewSeasonRepository(db, breaker), store)
		owners := cacherepo.NewOwnerRepository(postgres.NewOwnerRepository(db, breaker), store)
		return seasons, owners, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", a.Config.StorageDriver)
	}
}
