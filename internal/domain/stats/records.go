package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/league-history/internal/domain/owner"
	"github.com/riskibarqy/league-history/internal/domain/season"
)

const (
	TopN                       = 10
	MinSeasonsForWinPercentage = 3
)

// RecordCategory is the closed set of all-time records.
type RecordCategory string

const (
	CategoryMostChampionships      RecordCategory = "most_championships"
	CategoryBestWinPercentage      RecordCategory = "best_win_percentage"
	CategoryMostWinsInSeason       RecordCategory = "most_wins_in_season"
	CategoryMostPointsInSeason     RecordCategory = "most_points_in_season"
	CategoryHighestWeeklyScore     RecordCategory = "highest_weekly_score"
	CategoryMostPlayoffAppearances RecordCategory = "most_playoff_appearances"
	CategoryMostPointsTitles       RecordCategory = "most_points_titles"
	CategoryMostLastPlace          RecordCategory = "most_last_place"
	CategoryMostCareerWins         RecordCategory = "most_career_wins"
	CategoryMostSeasonsPlayed      RecordCategory = "most_seasons_played"
	CategoryMostCareerPoints       RecordCategory = "most_career_points"
	CategoryMostRunnerUps          RecordCategory = "most_runner_ups"
	CategoryLongestTenure          RecordCategory = "longest_tenure"
)

// Categories lists every record category in display order.
var Categories = []RecordCategory{
	CategoryMostChampionships,
	CategoryBestWinPercentage,
	CategoryMostWinsInSeason,
	CategoryMostPointsInSeason,
	CategoryHighestWeeklyScore,
	CategoryMostPlayoffAppearances,
	CategoryMostPointsTitles,
	CategoryMostLastPlace,
	CategoryMostCareerWins,
	CategoryMostSeasonsPlayed,
	CategoryMostCareerPoints,
	CategoryMostRunnerUps,
	CategoryLongestTenure,
}

var categoryText = map[RecordCategory][2]string{
	CategoryMostChampionships:      {"Most Championships", "Most league titles won, split titles count as half"},
	CategoryBestWinPercentage:      {"Best Win Percentage", "Highest career win percentage (minimum 3 seasons)"},
	CategoryMostWinsInSeason:       {"Most Wins in a Season", "Most regular season wins in a single season"},
	CategoryMostPointsInSeason:     {"Most Points in a Season", "Highest points scored in a single season"},
	CategoryHighestWeeklyScore:     {"Highest Weekly Score", "Highest points scored in a single week"},
	CategoryMostPlayoffAppearances: {"Most Playoff Appearances", "Most seasons reaching the playoffs"},
	CategoryMostPointsTitles:       {"Most Points Titles", "Most seasons finishing as the top scorer"},
	CategoryMostLastPlace:          {"Most Last Place Finishes", "Most seasons finishing at the bottom"},
	CategoryMostCareerWins:         {"Most Career Wins", "Most wins across all seasons"},
	CategoryMostSeasonsPlayed:      {"Most Seasons Played", "Most seasons in the league"},
	CategoryMostCareerPoints:       {"Most Career Points", "Most points scored across all seasons"},
	CategoryMostRunnerUps:          {"Most Runner-Up Finishes", "Most championship game losses"},
	CategoryLongestTenure:          {"Iron Man", "Most consecutive seasons in the league"},
}

func (c RecordCategory) Title() string {
	return categoryText[c][0]
}

func (c RecordCategory) Description() string {
	return categoryText[c][1]
}

type RecordEntry struct {
	Rank      int     `json:"rank"`
	OwnerName string  `json:"ownerName"`
	Value     float64 `json:"value"`
	Display   string  `json:"display"`
	Year      int     `json:"year,omitempty"`
	Week      int     `json:"week,omitempty"`
	Detail    string  `json:"detail,omitempty"`
}

type Record struct {
	Category    RecordCategory `json:"category"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Leader      RecordEntry    `json:"leader"`
	TopTen      []RecordEntry  `json:"topTen"`
}

// ranking parameterizes rankTop for one category.
type ranking[T any] struct {
	value    func(T) float64
	ahead    func(a, b T) bool
	eligible func(T) bool
	entry    func(T) RecordEntry
}

// rankTop filters, sorts by value descending with the tie-break, and keeps the first n.
// Items still equal after the tie-break keep their input order.
func rankTop[T any](items []T, r ranking[T], n int) []RecordEntry {
	pool := make([]T, 0, len(items))
	for _, item := range items {
		if r.eligible == nil || r.eligible(item) {
			pool = append(pool, item)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		vi, vj := r.value(pool[i]), r.value(pool[j])
		if vi != vj {
			return vi > vj
		}
		if r.ahead != nil {
			return r.ahead(pool[i], pool[j])
		}
		return false
	})

	if len(pool) > n {
		pool = pool[:n]
	}
	out := make([]RecordEntry, 0, len(pool))
	for i, item := range pool {
		e := r.entry(item)
		e.Rank = i + 1
		e.Value = r.value(item)
		out = append(out, e)
	}
	return out
}

type seasonResult struct {
	year     int
	standing season.Standing
}

type weeklyScore struct {
	year     int
	week     int
	score    season.TeamScore
	opponent string
}

// Records computes every category that has at least one qualifying entry.
func Records(owners []owner.Owner, seasons []season.Season) []Record {
	ordered := chronological(seasons)
	results := seasonResults(ordered)
	scores := weeklyScores(ordered)

	out := make([]Record, 0, len(Categories))
	for _, category := range Categories {
		var entries []RecordEntry
		switch category {
		case CategoryMostChampionships:
			entries = rankTop(owners, ranking[owner.Owner]{
				value:    func(o owner.Owner) float64 { return o.ChampionshipCount },
				ahead:    fewerSeasons,
				eligible: func(o owner.Owner) bool { return o.ChampionshipCount > 0 },
				entry: func(o owner.Owner) RecordEntry {
					return RecordEntry{OwnerName: o.Name, Display: formatCount(o.ChampionshipCount), Detail: joinYears(o.Championships)}
				},
			}, TopN)
		case CategoryBestWinPercentage:
			entries = rankTop(owners, ranking[owner.Owner]{
				value: func(o owner.Owner) float64 { return o.Stats.WinPercentage },
				ahead: func(a, b owner.Owner) bool { return a.Stats.TotalWins > b.Stats.TotalWins },
				eligible: func(o owner.Owner) bool {
					return o.TotalSeasons >= MinSeasonsForWinPercentage && o.TotalGames() > 0
				},
				entry: func(o owner.Owner) RecordEntry {
					return RecordEntry{
						OwnerName: o.Name,
						Display:   fmt.Sprintf("%.1f%%", o.Stats.WinPercentage),
						Detail:    FormatRecord(o.Stats.TotalWins, o.Stats.TotalLosses, o.Stats.TotalTies),
					}
				},
			}, TopN)
		case CategoryMostWinsInSeason:
			entries = rankTop(results, ranking[seasonResult]{
				value:    func(r seasonResult) float64 { return float64(r.standing.Wins) },
				ahead:    func(a, b seasonResult) bool { return a.standing.Losses < b.standing.Losses },
				eligible: func(r seasonResult) bool { return r.standing.Wins > 0 },
				entry: func(r seasonResult) RecordEntry {
					return RecordEntry{
						OwnerName: r.standing.OwnerName,
						Display:   strconv.Itoa(r.standing.Wins),
						Year:      r.year,
						Detail:    FormatRecord(r.standing.Wins, r.standing.Losses, r.standing.Ties),
					}
				},
			}, TopN)
		case CategoryMostPointsInSeason:
			entries = rankTop(results, ranking[seasonResult]{
				value:    func(r seasonResult) float64 { return r.standing.PointsFor },
				eligible: func(r seasonResult) bool { return r.standing.PointsFor > 0 },
				entry: func(r seasonResult) RecordEntry {
					return RecordEntry{
						OwnerName: r.standing.OwnerName,
						Display:   formatPoints(r.standing.PointsFor),
						Year:      r.year,
						Detail:    r.standing.TeamName,
					}
				},
			}, TopN)
		case CategoryHighestWeeklyScore:
			entries = rankTop(scores, ranking[weeklyScore]{
				value:    func(w weeklyScore) float64 { return w.score.Score },
				eligible: func(w weeklyScore) bool { return w.score.Score > 0 },
				entry: func(w weeklyScore) RecordEntry {
					return RecordEntry{
						OwnerName: w.score.OwnerName,
						Display:   formatPoints(w.score.Score),
						Year:      w.year,
						Week:      w.week,
						Detail:    "vs " + w.opponent,
					}
				},
			}, TopN)
		case CategoryMostPlayoffAppearances:
			entries = rankTop(owners, ownerCount(
				func(o owner.Owner) int { return o.PlayoffAppearances },
				func(a, b owner.Owner) bool { return a.Stats.PlayoffPercentage > b.Stats.PlayoffPercentage },
			), TopN)
		case CategoryMostPointsTitles:
			entries = rankTop(owners, ownerYears(func(o owner.Owner) []int { return o.MostPointsSeasons }), TopN)
		case CategoryMostLastPlace:
			entries = rankTop(owners, ownerYears(func(o owner.Owner) []int { return o.LastPlaceSeasons }), TopN)
		case CategoryMostCareerWins:
			entries = rankTop(owners, ownerCount(
				func(o owner.Owner) int { return o.Stats.TotalWins },
				func(a, b owner.Owner) bool { return a.Stats.TotalLosses < b.Stats.TotalLosses },
			), TopN)
		case CategoryMostSeasonsPlayed:
			entries = rankTop(owners, ownerCount(
				func(o owner.Owner) int { return o.TotalSeasons },
				func(a, b owner.Owner) bool { return a.FirstSeason() < b.FirstSeason() },
			), TopN)
		case CategoryMostCareerPoints:
			entries = rankTop(owners, ranking[owner.Owner]{
				value:    func(o owner.Owner) float64 { return o.Stats.TotalPointsFor },
				ahead:    fewerSeasons,
				eligible: func(o owner.Owner) bool { return o.Stats.TotalPointsFor > 0 },
				entry: func(o owner.Owner) RecordEntry {
					return RecordEntry{
						OwnerName: o.Name,
						Display:   formatPoints(o.Stats.TotalPointsFor),
						Detail:    fmt.Sprintf("%d seasons", o.TotalSeasons),
					}
				},
			}, TopN)
		case CategoryMostRunnerUps:
			rank := ownerYears(func(o owner.Owner) []int { return o.RunnerUps })
			rank.ahead = func(a, b owner.Owner) bool { return a.ChampionshipCount < b.ChampionshipCount }
			entries = rankTop(owners, rank, TopN)
		case CategoryLongestTenure:
			entries = rankTop(owners, ranking[owner.Owner]{
				value: func(o owner.Owner) float64 { return float64(o.Stats.LongestTenure) },
				ahead: func(a, b owner.Owner) bool {
					return a.Stats.LongestTenureStart < b.Stats.LongestTenureStart
				},
				eligible: func(o owner.Owner) bool { return o.Stats.LongestTenure > 0 },
				entry: func(o owner.Owner) RecordEntry {
					end := o.Stats.LongestTenureStart + o.Stats.LongestTenure - 1
					return RecordEntry{
						OwnerName: o.Name,
						Display:   fmt.Sprintf("%d seasons", o.Stats.LongestTenure),
						Year:      o.Stats.LongestTenureStart,
						Detail:    fmt.Sprintf("%d-%d", o.Stats.LongestTenureStart, end),
					}
				},
			}, TopN)
		}

		if len(entries) == 0 {
			continue
		}
		out = append(out, Record{
			Category:    category,
			Title:       category.Title(),
			Description: category.Description(),
			Leader:      entries[0],
			TopTen:      entries,
		})
	}
	return out
}

func ownerCount(count func(owner.Owner) int, ahead func(a, b owner.Owner) bool) ranking[owner.Owner] {
	return ranking[owner.Owner]{
		value:    func(o owner.Owner) float64 { return float64(count(o)) },
		ahead:    ahead,
		eligible: func(o owner.Owner) bool { return count(o) > 0 },
		entry: func(o owner.Owner) RecordEntry {
			return RecordEntry{OwnerName: o.Name, Display: strconv.Itoa(count(o))}
		},
	}
}

func ownerYears(years func(owner.Owner) []int) ranking[owner.Owner] {
	return ranking[owner.Owner]{
		value:    func(o owner.Owner) float64 { return float64(len(years(o))) },
		ahead:    fewerSeasons,
		eligible: func(o owner.Owner) bool { return len(years(o)) > 0 },
		entry: func(o owner.Owner) RecordEntry {
			return RecordEntry{OwnerName: o.Name, Display: strconv.Itoa(len(years(o))), Detail: joinYears(years(o))}
		},
	}
}

func fewerSeasons(a, b owner.Owner) bool {
	return a.TotalSeasons < b.TotalSeasons
}

func chronological(seasons []season.Season) []season.Season {
	out := append([]season.Season(nil), seasons...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Year < out[j].Year
	})
	return out
}

func seasonResults(ordered []season.Season) []seasonResult {
	var out []seasonResult
	for _, s := range ordered {
		for _, st := range s.Standings {
			out = append(out, seasonResult{year: s.Year, standing: st})
		}
	}
	return out
}

func weeklyScores(ordered []season.Season) []weeklyScore {
	var out []weeklyScore
	for _, s := range ordered {
		for _, m := range s.Matchups {
			out = append(out,
				weeklyScore{year: s.Year, week: m.Week, score: m.Home, opponent: m.Away.OwnerName},
				weeklyScore{year: s.Year, week: m.Week, score: m.Away, opponent: m.Home.OwnerName},
			)
		}
	}
	return out
}

func joinYears(years []int) string {
	parts := make([]string, 0, len(years))
	for _, y := range years {
		parts = append(parts, strconv.Itoa(y))
	}
	return strings.Join(parts, ", ")
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
