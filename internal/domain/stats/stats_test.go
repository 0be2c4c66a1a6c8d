package stats

import (
	"testing"

	"github.com/riskibarqy/league-history/internal/domain/owner"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/stretchr/testify/require"
)

func game(week int, home string, homeScore float64, away string, awayScore float64) season.WeeklyMatchup {
	return season.WeeklyMatchup{
		Week: week,
		Home: season.TeamScore{OwnerName: home, Score: homeScore},
		Away: season.TeamScore{OwnerName: away, Score: awayScore},
	}
}

func h2hSeasons() []season.Season {
	return []season.Season{
		{
			Year:      2022,
			Standings: []season.Standing{{Rank: 1, OwnerName: "Bob"}, {Rank: 2, OwnerName: "Alice"}},
			Matchups:  []season.WeeklyMatchup{game(6, "Alice", 100, "Bob", 160)},
		},
		{
			Year:      2021,
			Standings: []season.Standing{{Rank: 1, OwnerName: "Alice"}, {Rank: 2, OwnerName: "Bob"}},
			Matchups:  []season.WeeklyMatchup{game(5, "Alice", 150, "Bob", 140)},
		},
		{
			Year:      2005,
			Standings: []season.Standing{{Rank: 1, OwnerName: "Alice"}, {Rank: 2, OwnerName: "Bob"}},
		},
	}
}

func TestHeadToHead_Scenario(t *testing.T) {
	t.Parallel()

	records := HeadToHead(h2hSeasons())
	require.Len(t, records, 1)

	rec, ok := Between(records, "Alice", "Bob")
	require.True(t, ok)
	require.Equal(t, 1, rec.Owner1Wins)
	require.Equal(t, 1, rec.Owner2Wins)
	require.Equal(t, 0, rec.Ties)
	require.Equal(t, 2, rec.TotalMatchups)
	require.NotNil(t, rec.BiggestBlowout)
	require.Equal(t, "Bob", rec.BiggestBlowout.Winner)
	require.Equal(t, 60.0, rec.BiggestBlowout.Margin)
	require.Equal(t, 2022, rec.Meetings[0].Year, "meetings are listed newest first")
}

func TestHeadToHead_Symmetry(t *testing.T) {
	t.Parallel()

	seasons := []season.Season{{
		Year:      2023,
		Standings: []season.Standing{{Rank: 1, OwnerName: "Zed"}, {Rank: 2, OwnerName: "Amy"}},
		Matchups: []season.WeeklyMatchup{
			game(1, "Zed", 110, "Amy", 90),
			game(2, "Amy", 120, "Zed", 100),
			game(3, "Amy", 80, "Zed", 95),
			game(4, "Zed", 100, "Amy", 100),
		},
	}}
	records := HeadToHead(seasons)
	require.Len(t, records, 1, "home/away swaps must not split the pair")

	ab, ok := Between(records, "Amy", "Zed")
	require.True(t, ok)
	ba, ok := Between(records, "zed", "amy")
	require.True(t, ok)

	require.Equal(t, ab.TotalMatchups, ba.TotalMatchups)
	require.Equal(t, ab.Owner1Wins, ba.Owner2Wins)
	require.Equal(t, ab.Owner2Wins, ba.Owner1Wins)
	require.Equal(t, ab.Owner1Points, ba.Owner2Points)
	require.Equal(t, 1, ab.Owner1Wins)
	require.Equal(t, 2, ab.Owner2Wins)
	require.Equal(t, 1, ab.Ties)
}

func TestHeadToHead_BlowoutAndClosestKeepFirstOnTies(t *testing.T) {
	t.Parallel()

	seasons := []season.Season{{
		Year:      2019,
		Standings: []season.Standing{{Rank: 1, OwnerName: "A"}, {Rank: 2, OwnerName: "B"}},
		Matchups: []season.WeeklyMatchup{
			game(3, "B", 100, "A", 80),
			game(1, "A", 130, "B", 110),
			game(2, "A", 105, "B", 100),
			game(4, "A", 90, "B", 95),
		},
	}}
	rec := HeadToHead(seasons)[0]
	require.Equal(t, 1, rec.BiggestBlowout.Week, "week 1 is the first 20-point game chronologically")
	require.Equal(t, 2, rec.ClosestGame.Week)
	require.Equal(t, 2, rec.CloseGames)
}

func TestHeadToHead_IgnoresMissingMatchups(t *testing.T) {
	t.Parallel()

	seasons := []season.Season{{Year: 2004, Standings: []season.Standing{{Rank: 1, OwnerName: "A"}}}}
	require.Empty(t, HeadToHead(seasons))
	_, ok := Between(nil, "A", "B")
	require.False(t, ok)
}

func TestRivalries_ScoreAndOrdering(t *testing.T) {
	t.Parallel()

	champ := game(16, "A", 120, "B", 115)
	champ.IsPlayoff, champ.IsChampionship = true, true
	semi := game(15, "A", 100, "C", 130)
	semi.IsPlayoff = true

	seasons := []season.Season{{
		Year:      2020,
		Standings: []season.Standing{{Rank: 1, OwnerName: "A"}, {Rank: 2, OwnerName: "B"}, {Rank: 3, OwnerName: "C"}},
		Matchups: []season.WeeklyMatchup{
			game(1, "A", 100, "B", 90),
			game(2, "B", 140, "A", 100),
			game(3, "A", 100, "C", 50),
			semi,
			champ,
		},
	}}

	rivalries := Rivalries(HeadToHead(seasons))
	require.Len(t, rivalries, 2)

	// A-B: min wins 1, one championship meeting, close games: 10 (no), 40 (no), 5 (yes), three meetings.
	require.Equal(t, "A", rivalries[0].Owner1)
	require.Equal(t, "B", rivalries[0].Owner2)
	require.Equal(t, 1, rivalries[0].ChampionshipMeetings)
	require.Equal(t, 0, rivalries[0].PlayoffMeetings)
	require.Equal(t, 2*1+10*1+3*1+3, rivalries[0].RivalryScore)

	// A-C: min wins 1, one playoff meeting, no close games, two meetings.
	require.Equal(t, 2*1+5*1+2, rivalries[1].RivalryScore)

	for i := 1; i < len(rivalries); i++ {
		require.GreaterOrEqual(t, rivalries[i-1].RivalryScore, rivalries[i].RivalryScore)
	}
	require.Len(t, TopRivalries(rivalries, 1), 1)
	require.Len(t, TopRivalries(rivalries, 0), 2)
}

func TestViews_EmptyDataset(t *testing.T) {
	t.Parallel()

	require.NotNil(t, Leaderboard(nil))
	require.Empty(t, Leaderboard(nil))
	require.NotNil(t, Records(nil, nil))
	require.Empty(t, Records(nil, nil))
	require.NotNil(t, HeadToHead(nil))
	require.Empty(t, HeadToHead(nil))
	require.NotNil(t, Rivalries(nil))
	require.Empty(t, Rivalries(nil))

	hof := HallOfFameFor(nil, HallOfFameCriteria{})
	require.Empty(t, hof.Inductees)
	all := AllTime(nil, nil)
	require.Zero(t, all.TotalSeasons)
	require.Nil(t, all.HighestGame)
}

func recordOwners() []owner.Owner {
	return []owner.Owner{
		{
			ID: "alice", Name: "Alice", TotalSeasons: 4, ChampionshipCount: 1.5, Championships: []int{2019, 2020},
			PlayoffAppearances: 3, MostPointsSeasons: []int{2019}, RunnerUps: []int{2021}, Seasons: []int{2018, 2019, 2020, 2021},
			Stats: owner.Stats{TotalWins: 30, TotalLosses: 22, WinPercentage: 57.7, TotalPointsFor: 6000, PlayoffPercentage: 75, LongestTenure: 4, LongestTenureStart: 2018},
		},
		{
			ID: "bob", Name: "Bob", TotalSeasons: 2, ChampionshipCount: 1.5, Championships: []int{2020, 2021},
			PlayoffAppearances: 2, RunnerUps: []int{2019}, LastPlaceSeasons: []int{2018}, Seasons: []int{2020, 2021},
			Stats: owner.Stats{TotalWins: 18, TotalLosses: 8, WinPercentage: 69.2, TotalPointsFor: 3100, PlayoffPercentage: 100, LongestTenure: 2, LongestTenureStart: 2020},
		},
		{
			ID: "carol", Name: "Carol", TotalSeasons: 3, Seasons: []int{2018, 2019, 2020},
			Stats: owner.Stats{TotalWins: 12, TotalLosses: 27, WinPercentage: 30.8, TotalPointsFor: 4000, LongestTenure: 3, LongestTenureStart: 2018},
		},
	}
}

func recordByCategory(records []Record) map[RecordCategory]Record {
	out := make(map[RecordCategory]Record, len(records))
	for _, r := range records {
		out[r.Category] = r
	}
	return out
}

func TestRecords_Categories(t *testing.T) {
	t.Parallel()

	seasons := []season.Season{
		{
			Year: 2019,
			Standings: []season.Standing{
				{Rank: 1, OwnerName: "Alice", Wins: 11, Losses: 2, PointsFor: 1800},
				{Rank: 2, OwnerName: "Carol", Wins: 11, Losses: 1, PointsFor: 1500},
			},
			Matchups: []season.WeeklyMatchup{game(1, "Alice", 171.5, "Carol", 99)},
		},
	}

	byCategory := recordByCategory(Records(recordOwners(), seasons))

	champs := byCategory[CategoryMostChampionships]
	require.Equal(t, "Bob", champs.Leader.OwnerName, "equal titles favour fewer seasons")
	require.Equal(t, "1.5", champs.Leader.Display)
	require.Len(t, champs.TopTen, 2)

	winPct := byCategory[CategoryBestWinPercentage]
	require.Equal(t, "Alice", winPct.Leader.OwnerName, "Bob is below the season floor")
	require.Len(t, winPct.TopTen, 2)

	wins := byCategory[CategoryMostWinsInSeason]
	require.Equal(t, "Carol", wins.Leader.OwnerName, "equal wins favour fewer losses")
	require.Equal(t, 2019, wins.Leader.Year)

	weekly := byCategory[CategoryHighestWeeklyScore]
	require.Equal(t, 171.5, weekly.Leader.Value)
	require.Equal(t, "vs Carol", weekly.Leader.Detail)

	seasonsPlayed := byCategory[CategoryMostSeasonsPlayed]
	require.Equal(t, []string{"Alice", "Carol", "Bob"}, []string{
		seasonsPlayed.TopTen[0].OwnerName, seasonsPlayed.TopTen[1].OwnerName, seasonsPlayed.TopTen[2].OwnerName,
	})
	require.Equal(t, 3, seasonsPlayed.TopTen[2].Rank)

	require.Equal(t, "Iron Man", byCategory[CategoryLongestTenure].Title)
	require.Equal(t, "2018-2021", byCategory[CategoryLongestTenure].Leader.Detail)
}

func TestRecords_OmitsCategoriesWithoutQualifiers(t *testing.T) {
	t.Parallel()

	owners := []owner.Owner{{ID: "rookie", Name: "Rookie", TotalSeasons: 1, Seasons: []int{2024}, Stats: owner.Stats{TotalWins: 7, TotalLosses: 7, WinPercentage: 50, LongestTenure: 1, LongestTenureStart: 2024}}}
	byCategory := recordByCategory(Records(owners, nil))

	for _, missing := range []RecordCategory{CategoryBestWinPercentage, CategoryMostChampionships, CategoryHighestWeeklyScore, CategoryMostRunnerUps} {
		_, ok := byCategory[missing]
		require.False(t, ok, "category %s should be omitted", missing)
	}
	_, ok := byCategory[CategoryMostCareerWins]
	require.True(t, ok)
}

func TestRankTop_LimitsToTopN(t *testing.T) {
	t.Parallel()

	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}
	got := rankTop(items, ranking[int]{
		value:    func(v int) float64 { return float64(v % 5) },
		ahead:    func(a, b int) bool { return a > b },
		eligible: func(v int) bool { return v%2 == 0 },
		entry:    func(v int) RecordEntry { return RecordEntry{Year: v} },
	}, TopN)

	require.Len(t, got, TopN)
	require.Equal(t, 24, got[0].Year)
	require.Equal(t, 4.0, got[0].Value)
	require.Equal(t, 1, got[0].Rank)
}

func TestHallOfFame(t *testing.T) {
	t.Parallel()

	owners := recordOwners()
	owners[2].MostPointsSeasons = []int{2004, 2005, 2006, 2007, 2008}

	hof := HallOfFameFor(owners, HallOfFameCriteria{MinChampionships: 1.5, WinningMinSeasons: 2})
	require.Len(t, hof.Inductees, 3)
	require.Equal(t, "Alice", hof.Inductees[0].OwnerName)
	require.Equal(t, "Bob", hof.Inductees[1].OwnerName)
	require.Equal(t, "Carol", hof.Inductees[2].OwnerName)
	require.Empty(t, hof.IronMen)
	require.Len(t, hof.WinningOwners, 2)
	require.Equal(t, "Bob", hof.WinningOwners[0].OwnerName)
}

func TestAllTime(t *testing.T) {
	t.Parallel()

	seasons := []season.Season{{
		Year: 2021,
		Standings: []season.Standing{
			{Rank: 1, OwnerName: "A", Wins: 3, Losses: 0, PointsFor: 330},
			{Rank: 2, OwnerName: "B", Wins: 0, Losses: 3, PointsFor: 240},
		},
		Matchups: []season.WeeklyMatchup{
			game(1, "A", 100, "B", 0),
			game(2, "B", 90, "A", 110),
			game(3, "A", 120, "B", 150),
		},
	}}

	got := AllTime(recordOwners(), seasons)
	require.Equal(t, 1, got.TotalSeasons)
	require.Equal(t, 3, got.TotalGames)
	require.Equal(t, 570.0, got.TotalPoints)
	require.Equal(t, 95.0, got.AvgPointsPerGame)
	require.Equal(t, 150.0, got.HighestGame.Score)
	require.Equal(t, 90.0, got.LowestGame.Score, "zero scores are ignored")
	require.Equal(t, "Alice", got.ChampionshipLeader)
	require.Equal(t, 2, got.LongestWinStreak.Length)
	require.Equal(t, "A", got.LongestWinStreak.OwnerName)
	require.Equal(t, 2, got.LongestLosingStreak.Length)
	require.Equal(t, "B", got.LongestLosingStreak.OwnerName)
}

func TestHighlights(t *testing.T) {
	t.Parallel()

	s := season.Season{
		Year: 2022,
		Matchups: []season.WeeklyMatchup{
			game(1, "A", 150, "B", 90),
			game(1, "C", 101, "D", 100),
			game(2, "A", 80, "C", 79),
			game(2, "B", 75, "D", 75),
			game(3, "D", 160, "B", 100),
		},
	}

	got := Highlights(s)
	require.Equal(t, 160.0, got.HighestScore.Score)
	require.Equal(t, "B", got.HighestScore.Opponent)
	require.Equal(t, 80.0, got.LowestWinningScore.Score)
	require.Equal(t, 1, got.BiggestBlowout.Week)
	require.Equal(t, "C", got.ClosestGame.Winner, "first one-point game wins the tie")
	require.Equal(t, 260.0, got.HighestCombined.WinnerScore+got.HighestCombined.LoserScore)
	require.Equal(t, []WeeklyHighCount{{OwnerName: "A", Count: 2}, {OwnerName: "D", Count: 1}}, got.WeeklyHighScores)
}

func TestFormatRecord(t *testing.T) {
	t.Parallel()

	require.Equal(t, "10-3", FormatRecord(10, 3, 0))
	require.Equal(t, "6-6-1", FormatRecord(6, 6, 1))
}
