package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/league-history/internal/domain/owner"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/domain/stats"
	ownermock "github.com/riskibarqy/league-history/internal/mocks/domain/owner"
	seasonmock "github.com/riskibarqy/league-history/internal/mocks/domain/season"
	"github.com/riskibarqy/league-history/internal/platform/cache"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func statsFixture(t *testing.T) ([]season.Season, []owner.Owner) {
	t.Helper()

	raw := rawSeason(2019, "Alice", "Bob")
	raw.Matchups = []season.WeeklyMatchup{
		{Week: 1, Home: season.TeamScore{OwnerName: "Alice", Score: 120}, Away: season.TeamScore{OwnerName: "Bob", Score: 95}},
		{Week: 2, Home: season.TeamScore{OwnerName: "Bob", Score: 101}, Away: season.TeamScore{OwnerName: "Alice", Score: 99}},
		{Week: 15, Home: season.TeamScore{OwnerName: "Alice", Score: 130}, Away: season.TeamScore{OwnerName: "Bob", Score: 110}},
	}
	raw.RegularSeasonWeeks = 14

	normalized, err := season.NewNormalizer(nil).Normalize(raw)
	require.NoError(t, err)
	seasons := []season.Season{normalized}

	owners, err := owner.NewAggregator(nil, owner.AggregateOptions{}).Aggregate(seasons, 2019)
	require.NoError(t, err)
	return seasons, owners
}

func newStatsServiceWithData(t *testing.T, loads int) *StatsService {
	t.Helper()

	seasons, owners := statsFixture(t)
	seasonRepo := seasonmock.NewRepository(t)
	ownerRepo := ownermock.NewRepository(t)
	seasonRepo.On("ListSeasons", mock.Anything).Return(seasons, nil).Times(loads)
	ownerRepo.On("ListOwners", mock.Anything).Return(owners, nil).Times(loads)

	return NewStatsService(seasonRepo, ownerRepo, cache.NewStore(time.Minute), stats.DefaultHallOfFameCriteria(), nil)
}

func TestStatsService_ViewsShareOneLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := newStatsServiceWithData(t, 1)

	board, err := service.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, board, 2)

	records, err := service.Records(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, records)

	rivalries, err := service.Rivalries(ctx, 5)
	require.NoError(t, err)
	require.Len(t, rivalries, 1)
	require.Equal(t, 3, rivalries[0].TotalMatchups)

	allTime, err := service.AllTime(ctx)
	require.NoError(t, err)
	require.Equal(t, 13, allTime.TotalGames)

	_, err = service.HallOfFame(ctx)
	require.NoError(t, err)

	require.Equal(t, int64(1), service.CacheStats().Loads)
}

func TestStatsService_HeadToHead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := newStatsServiceWithData(t, 1)

	rec, err := service.HeadToHead(ctx, "bob", "Alice")
	require.NoError(t, err)
	require.Equal(t, "Bob", rec.Owner1)
	require.Equal(t, 1, rec.Owner1Wins)
	require.Equal(t, 2, rec.Owner2Wins)
	require.Equal(t, 1, rec.PlayoffMeetings)

	_, err = service.HeadToHead(ctx, "Alice", " alice ")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.HeadToHead(ctx, "Alice", "Zed")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStatsService_SeasonHighlightsAndOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := newStatsServiceWithData(t, 1)

	highlights, err := service.SeasonHighlights(ctx, 2019)
	require.NoError(t, err)
	require.NotNil(t, highlights.HighestScore)
	require.Equal(t, 130.0, highlights.HighestScore.Score)

	_, err = service.SeasonHighlights(ctx, 1999)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = service.SeasonHighlights(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidInput)

	alice, err := service.Owner(ctx, "Alice")
	require.NoError(t, err)
	require.Equal(t, "alice", alice.ID)
	require.Equal(t, []int{2019}, alice.Championships)

	_, err = service.Owner(ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStatsService_Snapshot(t *testing.T) {
	t.Parallel()

	service := newStatsServiceWithData(t, 1)

	snap, err := service.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Leaderboard, 2)
	require.Len(t, snap.Rivalries, 1)
	require.Len(t, snap.Highlights, 1)
	require.Equal(t, 2019, snap.Highlights[0].Year)
	require.NotEmpty(t, snap.Records)
	require.Equal(t, 13, snap.AllTime.TotalGames)
}

func TestStatsService_InvalidateReloads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := newStatsServiceWithData(t, 2)

	_, err := service.Leaderboard(ctx)
	require.NoError(t, err)
	service.Invalidate(ctx)
	_, err = service.Leaderboard(ctx)
	require.NoError(t, err)

	require.Equal(t, int64(2), service.CacheStats().Loads)
}

func TestStatsService_LoadErrorIsNotCached(t *testing.T) {
	t.Parallel()

	seasonRepo := seasonmock.NewRepository(t)
	ownerRepo := ownermock.NewRepository(t)
	errDB := errors.New("database is down")
	seasonRepo.On("ListSeasons", mock.Anything).Return(nil, errDB).Twice()

	service := NewStatsService(seasonRepo, ownerRepo, nil, stats.HallOfFameCriteria{}, nil)

	for i := 0; i < 2; i++ {
		if _, err := service.Leaderboard(context.Background()); !errors.Is(err, errDB) {
			t.Fatalf("expected database error, got %v", err)
		}
	}
}
