package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/league-history/internal/config"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"github.com/riskibarqy/league-history/internal/usecase"
	"github.com/stretchr/testify/require"
)

const historyCSV = `Year,OwnerName,TeamName,Rank,Wins,Losses,Ties,PointsFor,PointsAgainst,Champion,RunnerUp,MadePlayoffs
2018,Alice,Aces,1,10,3,0,1700,1400,Yes,No,Yes
2018,Bobby,Bombers,2,8,5,0,1600,1500,No,Yes,Yes
2019,Bob,Bombers,1,11,2,0,1750,1300,Yes,No,Yes
2019,Alice,Aces,2,9,4,0,1650,1450,No,Yes,Yes
2019,Carol,,3,many,4,0,1500,1500,No,No,No
`

func testConfig(t *testing.T, csvPath, mappingsPath string) config.Config {
	t.Helper()

	return config.Config{
		AppEnv:            config.EnvDev,
		StorageDriver:     config.StorageMemory,
		CSVPath:           csvPath,
		OwnerMappingsPath: mappingsPath,
		CurrentYear:       2019,
		CSVMinYear:        2004,
		CSVMaxYear:        2025,
		PointsMultiplier:  1,
		LoaderWorkers:     2,
		CacheTTL:          time.Minute,
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestApp_RefreshFromCSV(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	cfg := testConfig(t,
		writeFile(t, dir, "history.csv", historyCSV),
		writeFile(t, dir, "owner-mappings.json", `{"nameFixes":{"Bobby":"Bob"}}`),
	)

	a, err := Bootstrap(ctx, cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	result, err := a.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, result.Seasons, 2)
	require.Len(t, result.Owners, 2, "Bobby must resolve to Bob")
	require.Len(t, result.FailedYears, 1)
	require.Equal(t, usecase.SourceCSV, result.FailedYears[0].Source)

	board, err := a.Stats.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, board, 2)

	bob, err := a.Stats.Owner(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, []int{2019}, bob.Championships)
	require.Equal(t, []int{2018}, bob.RunnerUps)

	// No push URL configured.
	require.NoError(t, a.PushMetrics(ctx))
}

func TestApp_RefreshWithUnreadableSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig(t, filepath.Join(t.TempDir(), "missing.csv"), "")

	a, err := Bootstrap(ctx, cfg, logging.NewNop())
	require.NoError(t, err)

	result, err := a.Refresh(ctx)
	require.ErrorIs(t, err, usecase.ErrNoSeasons)
	require.Len(t, result.FailedYears, 1)
	require.True(t, errors.Is(result.FailedYears[0], os.ErrNotExist))
}

func TestBootstrap_RejectsBadMappings(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "", writeFile(t, t.TempDir(), "owner-mappings.json", `{"playoffTeamCount":-1}`))
	if _, err := Bootstrap(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected invalid mappings to fail bootstrap")
	}
}
