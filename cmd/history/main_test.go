package main

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/usecase"
)

func TestNewRefreshSummary(t *testing.T) {
	t.Parallel()

	got := newRefreshSummary(usecase.RefreshResult{
		RunID:   "run-1",
		Seasons: []season.Season{{Year: 2010}, {Year: 2011}, {Year: 2015}},
		FailedYears: []usecase.SeasonFailure{
			{Year: 2012, Source: usecase.SourceAPI, Err: errors.New("payload missing")},
		},
		Duration: 1500 * time.Microsecond,
	})

	if got.Seasons != 3 || got.FirstYear != 2010 || got.LastYear != 2015 {
		t.Fatalf("unexpected season summary: %+v", got)
	}
	if len(got.FailedYears) != 1 || got.FailedYears[0].Error != "payload missing" {
		t.Fatalf("unexpected failures: %+v", got.FailedYears)
	}
	if got.Duration != "2ms" {
		t.Fatalf("unexpected duration: %s", got.Duration)
	}
}
