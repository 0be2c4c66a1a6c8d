package espn

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/platform/logging"
)

const (
	defaultWorkers = 4
	maxWorkers     = 16
	payloadExt     = ".json"
)

type LoaderConfig struct {
	// Dir holds one payload per season named <year>.json.
	Dir     string
	Workers int
	Mapper  *Mapper
	Logger  *logging.Logger
}

type Loader struct {
	dir     string
	workers int
	mapper  *Mapper
	logger  *logging.Logger
}

// YearError reports a season whose payload could not be read or mapped.
type YearError struct {
	Year int
	Err  error
}

func (e YearError) Error() string {
	return "season " + strconv.Itoa(e.Year) + ": " + e.Err.Error()
}

func (e YearError) Unwrap() error {
	return e.Err
}

func NewLoader(cfg LoaderConfig) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	mapper := cfg.Mapper
	if mapper == nil {
		mapper = NewMapper(MapperOptions{})
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}

	return &Loader{
		dir:     strings.TrimSpace(cfg.Dir),
		workers: workers,
		mapper:  mapper,
		logger:  logger,
	}
}

// Load reads and maps the payload of every requested year concurrently. With no
// years, every <year>.json file in the directory is loaded. Seasons come back
// ordered by year; failed years are reported separately and never abort the run.
func (l *Loader) Load(ctx context.Context, years []int) ([]season.RawSeason, []YearError, error) {
	if l.dir == "" {
		return nil, nil, crerr.New("espn payload directory is not configured")
	}
	if len(years) == 0 {
		discovered, err := l.discoverYears()
		if err != nil {
			return nil, nil, err
		}
		years = discovered
	}
	years = uniqueYears(years)
	if len(years) == 0 {
		return []season.RawSeason{}, nil, nil
	}

	workerCount := min(l.workers, len(years))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, nil, crerr.Wrap(err, "create payload worker pool")
	}
	defer pool.Release()

	type outcome struct {
		year   int
		season season.RawSeason
		err    error
	}
	results := make(chan outcome, len(years))

	start := time.Now()
	var workers sync.WaitGroup
	for _, year := range years {
		year := year
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			raw, err := l.loadYear(ctx, year)
			results <- outcome{year: year, season: raw, err: err}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, nil, crerr.Wrap(err, "submit payload task to worker pool")
		}
	}

	workers.Wait()
	close(results)

	seasons := make([]season.RawSeason, 0, len(years))
	var failures []YearError
	for item := range results {
		if item.err != nil {
			failures = append(failures, YearError{Year: item.year, Err: item.err})
			continue
		}
		seasons = append(seasons, item.season)
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i].Year < seasons[j].Year })
	sort.Slice(failures, func(i, j int) bool { return failures[i].Year < failures[j].Year })

	l.logger.InfoContext(ctx, "espn payloads loaded",
		"dir", l.dir,
		"workers", workerCount,
		"loaded", len(seasons),
		"failed", len(failures),
		"duration", time.Since(start),
	)
	return seasons, failures, nil
}

func (l *Loader) loadYear(ctx context.Context, year int) (season.RawSeason, error) {
	if err := ctx.Err(); err != nil {
		return season.RawSeason{}, err
	}

	path := filepath.Join(l.dir, strconv.Itoa(year)+payloadExt)
	data, err := os.ReadFile(path)
	if err != nil {
		return season.RawSeason{}, crerr.Wrapf(err, "read payload %s", path)
	}
	league, err := Decode(data)
	if err != nil {
		return season.RawSeason{}, err
	}
	return l.mapper.MapSeason(league, year)
}

func (l *Loader) discoverYears() ([]int, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, crerr.Wrapf(err, "list payload directory %s", l.dir)
	}

	years := make([]int, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != payloadExt {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSuffix(entry.Name(), payloadExt))
		if err != nil || year <= 0 {
			continue
		}
		years = append(years, year)
	}
	return years, nil
}

func uniqueYears(years []int) []int {
	seen := make(map[int]struct{}, len(years))
	out := make([]int, 0, len(years))
	for _, year := range years {
		if year <= 0 {
			continue
		}
		if _, ok := seen[year]; ok {
			continue
		}
		seen[year] = struct{}{}
		out = append(out, year)
	}
	sort.Ints(out)
	return out
}
