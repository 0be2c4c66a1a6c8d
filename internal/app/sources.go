package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/riskibarqy/league-history/external/csvhistory"
	"github.com/riskibarqy/league-history/external/espn"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/usecase"
	"github.com/sourcegraph/conc"
)

// sourceLoader reads both ingestion sources. A source that cannot be read is
// reported as a failure so the other one still refreshes the history.
type sourceLoader struct {
	csvPath   string
	csv       *csvhistory.Parser
	espnDir   string
	api       *espn.Loader
	espnYears []int
}

type loadedSource struct {
	seasons  []season.RawSeason
	failures []usecase.SeasonFailure
}

func (l sourceLoader) load(ctx context.Context) (csvOut, apiOut loadedSource) {
	var wg conc.WaitGroup
	if l.csvPath != "" {
		wg.Go(func() { csvOut = l.loadCSV(ctx) })
	}
	if l.espnDir != "" {
		wg.Go(func() { apiOut = l.loadESPN(ctx) })
	}
	wg.Wait()
	return csvOut, apiOut
}

func (l sourceLoader) loadCSV(ctx context.Context) loadedSource {
	f, err := os.Open(l.csvPath)
	if err != nil {
		return failedSource(usecase.SourceCSV, fmt.Errorf("open %s: %w", l.csvPath, err))
	}
	defer f.Close()

	result, err := l.csv.Parse(ctx, f)
	if err != nil {
		return failedSource(usecase.SourceCSV, err)
	}

	out := loadedSource{seasons: result.Seasons}
	for _, rowErr := range result.Errors {
		out.failures = append(out.failures, usecase.SeasonFailure{
			Source: usecase.SourceCSV,
			Err:    errors.New(rowErr),
		})
	}
	return out
}

func (l sourceLoader) loadESPN(ctx context.Context) loadedSource {
	seasons, yearErrs, err := l.api.Load(ctx, l.espnYears)
	if err != nil {
		return failedSource(usecase.SourceAPI, err)
	}

	out := loadedSource{seasons: seasons}
	for _, yearErr := range yearErrs {
		out.failures = append(out.failures, usecase.SeasonFailure{
			Year:   yearErr.Year,
			Source: usecase.SourceAPI,
			Err:    yearErr.Err,
		})
	}
	return out
}

func failedSource(source string, err error) loadedSource {
	return loadedSource{failures: []usecase.SeasonFailure{{Source: source, Err: err}}}
}
