package owner

import (
	"errors"
	"testing"

	"github.com/riskibarqy/league-history/internal/domain/identity"
	"github.com/riskibarqy/league-history/internal/domain/season"
)

func sampleSeasons() []season.Season {
	return []season.Season{
		{
			Year: 2021,
			Standings: []season.Standing{
				{Rank: 1, OwnerName: "Bob", TeamName: "Bombers", Wins: 9, Losses: 4, PointsFor: 1650, PointsAgainst: 1500, MadePlayoffs: true},
				{Rank: 2, OwnerName: "alice", TeamName: "Aces II", Wins: 8, Losses: 5, PointsFor: 1700, PointsAgainst: 1550, MadePlayoffs: true},
				{Rank: 3, OwnerName: "Carol", TeamName: "Crushers", Wins: 4, Losses: 9, PointsFor: 1300, PointsAgainst: 1600},
			},
			Matchups: []season.WeeklyMatchup{
				{Week: 15, IsPlayoff: true, IsChampionship: true, Home: season.TeamScore{OwnerName: "Bob", Score: 120}, Away: season.TeamScore{OwnerName: "alice", Score: 110}},
			},
			Champions:  []string{"Bob"},
			RunnerUp:   "alice",
			MostPoints: season.OwnerPoints{OwnerName: "alice", Points: 1700},
			LastPlace:  "Carol",
		},
		{
			Year: 2019,
			Standings: []season.Standing{
				{Rank: 1, OwnerName: "Alice", TeamName: "Aces", Wins: 12, Losses: 1, PointsFor: 1800, PointsAgainst: 1400, MadePlayoffs: true},
				{Rank: 2, OwnerName: "Bob", TeamName: "Bombers", Wins: 10, Losses: 3, PointsFor: 1700, PointsAgainst: 1450, MadePlayoffs: true},
			},
			Champions:  []string{"Alice"},
			RunnerUp:   "Bob",
			MostPoints: season.OwnerPoints{OwnerName: "Alice", Points: 1800},
			LastPlace:  "Bob",
		},
		{
			Year: 2020,
			Standings: []season.Standing{
				{Rank: 1, OwnerName: "Alice", TeamName: "Aces", Wins: 6, Losses: 6, Ties: 1, PointsFor: 1500, PointsAgainst: 1500, MadePlayoffs: true},
				{Rank: 2, OwnerName: "Bob", TeamName: "Bombers", Wins: 6, Losses: 7, PointsFor: 1400, PointsAgainst: 1500, MadePlayoffs: true},
			},
			Champions:  []string{"Alice", "Bob"},
			MostPoints: season.OwnerPoints{OwnerName: "Alice", Points: 1500},
			LastPlace:  "Bob",
		},
	}
}

func ownersByID(t *testing.T, owners []Owner) map[string]Owner {
	t.Helper()
	out := make(map[string]Owner, len(owners))
	for _, o := range owners {
		out[o.ID] = o
	}
	return out
}

func TestAggregator_Aggregate_Totals(t *testing.T) {
	t.Parallel()

	seasons := sampleSeasons()
	owners, err := NewAggregator(identity.NewResolver(nil), AggregateOptions{}).Aggregate(seasons, 2021)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(owners) != 3 {
		t.Fatalf("expected 3 owners, got %d", len(owners))
	}

	byID := ownersByID(t, owners)
	for _, o := range owners {
		wins, losses, ties := 0, 0, 0
		points := 0.0
		for _, s := range seasons {
			for _, st := range s.Standings {
				if identity.Slugify(st.OwnerName) != o.ID {
					continue
				}
				wins += st.Wins
				losses += st.Losses
				ties += st.Ties
				points += st.PointsFor
			}
		}
		if o.Stats.TotalWins != wins || o.Stats.TotalLosses != losses || o.Stats.TotalTies != ties || o.Stats.TotalPointsFor != points {
			t.Fatalf("totals mismatch for %s: %+v", o.ID, o.Stats)
		}
		if o.Stats.WinPercentage < 0 || o.Stats.WinPercentage > 100 {
			t.Fatalf("win percentage out of bounds for %s: %v", o.ID, o.Stats.WinPercentage)
		}
	}

	alice := byID["alice"]
	if alice.Name != "Alice" {
		t.Fatalf("expected first-seen canonical name Alice, got %q", alice.Name)
	}
	if got := alice.TeamNames; len(got) != 2 || got[0] != "Aces" || got[1] != "Aces II" {
		t.Fatalf("unexpected team names: %v", got)
	}
	if alice.Stats.WinPercentage != 66.7 {
		t.Fatalf("unexpected win percentage: %v", alice.Stats.WinPercentage)
	}
	if alice.Stats.BestSeason == nil || alice.Stats.BestSeason.Year != 2019 {
		t.Fatalf("unexpected best season: %+v", alice.Stats.BestSeason)
	}
	if alice.Stats.WorstSeason == nil || alice.Stats.WorstSeason.Year != 2020 {
		t.Fatalf("unexpected worst season: %+v", alice.Stats.WorstSeason)
	}
	if alice.Stats.AvgPointsPerSeason != 1666.67 || alice.Stats.AvgWinsPerSeason != 8.7 {
		t.Fatalf("unexpected averages: %+v", alice.Stats)
	}
	if alice.PlayoffRecord.Losses != 1 || byID["bob"].PlayoffRecord.Wins != 1 {
		t.Fatalf("unexpected playoff records: alice=%+v bob=%+v", alice.PlayoffRecord, byID["bob"].PlayoffRecord)
	}
	if alice.Stats.LongestTenure != 3 || alice.Stats.LongestTenureStart != 2019 {
		t.Fatalf("unexpected tenure: %d from %d", alice.Stats.LongestTenure, alice.Stats.LongestTenureStart)
	}

	carol := byID["carol"]
	if carol.Stats.PlayoffPercentage != 0 || len(carol.LastPlaceSeasons) != 1 {
		t.Fatalf("unexpected carol stats: %+v", carol)
	}
}

func TestAggregator_Aggregate_SplitChampionshipCredit(t *testing.T) {
	t.Parallel()

	owners, err := NewAggregator(nil, AggregateOptions{}).Aggregate(sampleSeasons(), 2021)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	byID := ownersByID(t, owners)

	alice, bob := byID["alice"], byID["bob"]
	if alice.ChampionshipCount != 1.5 {
		t.Fatalf("alice championship count=%v want 1.5", alice.ChampionshipCount)
	}
	if bob.ChampionshipCount != 1.5 {
		t.Fatalf("bob championship count=%v want 1.5", bob.ChampionshipCount)
	}
	for _, o := range []Owner{alice, bob} {
		count := 0
		for _, year := range o.Championships {
			if year == 2020 {
				count++
			}
		}
		if count != 1 {
			t.Fatalf("%s should list 2020 exactly once: %v", o.ID, o.Championships)
		}
	}
	if got := alice.Championships; got[0] != 2019 || got[1] != 2020 {
		t.Fatalf("championship years not sorted: %v", got)
	}
}

func TestAggregator_Aggregate_SplitCreditForAbsentOwner(t *testing.T) {
	t.Parallel()

	seasons := []season.Season{{
		Year:      2015,
		Standings: []season.Standing{{Rank: 1, OwnerName: "Alice", Wins: 10}, {Rank: 2, OwnerName: "Bob", Wins: 5}},
		Champions: []string{"Alice", "Traded Tom"},
	}}

	owners, err := NewAggregator(nil, AggregateOptions{}).Aggregate(seasons, 2015)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	byID := ownersByID(t, owners)

	if byID["alice"].ChampionshipCount != 0.5 {
		t.Fatalf("alice should only get split credit, got %v", byID["alice"].ChampionshipCount)
	}
	tom, ok := byID["traded-tom"]
	if !ok {
		t.Fatalf("expected owner credited only through the split list")
	}
	if tom.ChampionshipCount != 0.5 || tom.TotalSeasons != 0 || tom.IsActive {
		t.Fatalf("unexpected absent owner record: %+v", tom)
	}
}

func TestAggregator_Aggregate_SeasonChampionsWinOverConfiguredSplits(t *testing.T) {
	t.Parallel()

	seasons := []season.Season{
		{
			Year:      2015,
			Standings: []season.Standing{{Rank: 1, OwnerName: "Alice", Wins: 10}, {Rank: 2, OwnerName: "Bob", Wins: 5}},
			Champions: []string{"Alice"},
		},
		{
			Year:      2016,
			Standings: []season.Standing{{Rank: 1, OwnerName: "Carol", Wins: 10}, {Rank: 2, OwnerName: "Bob", Wins: 5}},
			Champions: []string{"Carol", "Bob"},
		},
	}
	agg := NewAggregator(nil, AggregateOptions{SplitChampionships: map[int][]string{
		2015: {"Bob", "Carol"},
		2016: {"Alice", "Bob"},
		2017: {"Alice", "Bob", "Carol"},
		2018: {"Dave"},
		2014: {"Alice", "Erin"},
	}})

	owners, err := agg.Aggregate(seasons, 2016)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	byID := ownersByID(t, owners)

	want := map[string]float64{"alice": 1.5, "bob": 0.5, "carol": 0.5, "erin": 0.5}
	for id, count := range want {
		if got := byID[id].ChampionshipCount; got != count {
			t.Fatalf("%s championship count=%v want %v", id, got, count)
		}
	}
	if _, ok := byID["dave"]; ok {
		t.Fatalf("a one-name split entry must not credit anyone")
	}
	if got := byID["alice"].Championships; len(got) != 2 || got[0] != 2014 || got[1] != 2015 {
		t.Fatalf("unexpected alice championship years: %v", got)
	}
}

func TestAggregator_Aggregate_ActivityAndOrdering(t *testing.T) {
	t.Parallel()

	owners, err := NewAggregator(nil, AggregateOptions{}).Aggregate(sampleSeasons(), 2021)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	names := []string{owners[0].Name, owners[1].Name, owners[2].Name}
	if names[0] != "Alice" || names[1] != "Bob" || names[2] != "Carol" {
		t.Fatalf("owners not ordered case-insensitively: %v", names)
	}
	for _, o := range owners {
		if !o.IsActive {
			t.Fatalf("%s should be active in 2021", o.ID)
		}
	}

	owners, err = NewAggregator(nil, AggregateOptions{}).Aggregate(sampleSeasons(), 2020)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if byID := ownersByID(t, owners); byID["carol"].IsActive {
		t.Fatalf("carol did not play in 2020")
	}

	owners, err = NewAggregator(nil, AggregateOptions{CurrentOwners: []string{"carol"}}).Aggregate(sampleSeasons(), 2021)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if byID := ownersByID(t, owners); byID["alice"].IsActive || !byID["carol"].IsActive {
		t.Fatalf("explicit roster should decide activity")
	}
}

func TestAggregator_Aggregate_EmptySeasonIsProgrammingError(t *testing.T) {
	t.Parallel()

	_, err := NewAggregator(nil, AggregateOptions{}).Aggregate([]season.Season{{Year: 2001}}, 2001)
	if !errors.Is(err, ErrCorruptSeason) {
		t.Fatalf("expected ErrCorruptSeason, got %v", err)
	}
}

func TestAggregator_Aggregate_ZeroGames(t *testing.T) {
	t.Parallel()

	seasons := []season.Season{{Year: 2004, Standings: []season.Standing{{Rank: 1, OwnerName: "Newbie"}}}}
	owners, err := NewAggregator(nil, AggregateOptions{}).Aggregate(seasons, 2004)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if owners[0].Stats.WinPercentage != 0 {
		t.Fatalf("expected zero win percentage without games, got %v", owners[0].Stats.WinPercentage)
	}
}

func TestLongestRun(t *testing.T) {
	t.Parallel()

	length, start := longestRun([]int{2004, 2005, 2008, 2009, 2010, 2013})
	if length != 3 || start != 2008 {
		t.Fatalf("longestRun=%d from %d, want 3 from 2008", length, start)
	}

	if length, start := longestRun(nil); length != 0 || start != 0 {
		t.Fatalf("longestRun(nil)=%d from %d", length, start)
	}
}

func TestAggregator_Aggregate_TenureBreaksOnMissingYear(t *testing.T) {
	t.Parallel()

	standings := func(names ...string) []season.Standing {
		out := make([]season.Standing, 0, len(names))
		for i, name := range names {
			out = append(out, season.Standing{Rank: i + 1, OwnerName: name, Wins: 5, Losses: 5})
		}
		return out
	}
	seasons := []season.Season{
		{Year: 2010, Standings: standings("Alice", "Bob"), Champions: []string{"Alice"}},
		{Year: 2011, Standings: standings("Alice", "Bob"), Champions: []string{"Alice"}},
		{Year: 2013, Standings: standings("Bob", "Alice"), Champions: []string{"Bob"}},
	}

	owners, err := NewAggregator(nil, AggregateOptions{}).Aggregate(seasons, 2013)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	alice := ownersByID(t, owners)["alice"]
	if alice.Stats.LongestTenure != 2 || alice.Stats.LongestTenureStart != 2010 {
		t.Fatalf("unexpected tenure: %d from %d", alice.Stats.LongestTenure, alice.Stats.LongestTenureStart)
	}
}
